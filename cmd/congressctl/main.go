package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/spf13/cobra"
	"github.com/stake-plus/congressrp/src/api/webserver"
	"github.com/stake-plus/congressrp/src/config"
	"github.com/stake-plus/congressrp/src/data"
	"github.com/stake-plus/congressrp/src/data/bills"
	shareddiscord "github.com/stake-plus/congressrp/src/discord"
	"gorm.io/gorm"
)

var version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "congressctl",
		Short: "Operator tool for the Congress bot",
		Long: `congressctl inspects and maintains the Congress bot's database.

It uses the same environment as the bot (DB_DRIVER, MYSQL_DSN, SQLITE_PATH,
CHAMBERS_FILE) and can run while the bot is online.`,
		Version:      version,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(billsCmd())
	rootCmd.AddCommand(sessionCmd())
	rootCmd.AddCommand(tokenCmd())
	rootCmd.AddCommand(chambersCmd())
	rootCmd.AddCommand(commandsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func openDB() (*gorm.DB, config.Bootstrap, error) {
	boot, err := config.LoadBootstrap()
	if err != nil {
		return nil, boot, err
	}
	db, err := data.Connect(boot.DBDriver, boot.DSN())
	if err != nil {
		return nil, boot, fmt.Errorf("connect %s: %w", boot.DBDriver, err)
	}
	return db, boot, nil
}

func openStore(ctx context.Context) (*bills.Store, error) {
	db, _, err := openDB()
	if err != nil {
		return nil, err
	}
	if err := data.LoadSettings(db); err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	cfg := config.LoadLegislatureConfig(db)
	store := bills.NewStore(bills.NewGormRepository(db), bills.Options{CounterStart: cfg.CounterStart})
	if err := store.Init(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the settings and bill tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, boot, err := openDB()
			if err != nil {
				return err
			}
			if err := data.Migrate(db, bills.Models()...); err != nil {
				return err
			}
			fmt.Printf("Migrated %s database\n", boot.DBDriver)
			return nil
		},
	}
}

func billsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bills",
		Short: "List bills",
		Long: `List every bill with its current status.

Example:
  congressctl bills
  congressctl bills --status "voting"
  congressctl bills --proposer 123456789012345678`,
		RunE: func(cmd *cobra.Command, args []string) error {
			status, _ := cmd.Flags().GetString("status")
			proposer, _ := cmd.Flags().GetString("proposer")

			store, err := openStore(cmd.Context())
			if err != nil {
				return err
			}

			list := store.List()
			if proposer != "" {
				list = store.ListByProposer(proposer)
			}
			printed := 0
			for _, b := range list {
				if status != "" && !strings.HasPrefix(strings.ToLower(b.Status()), strings.ToLower(status)) {
					continue
				}
				fmt.Printf("%-9s %-12s %-40s %s\n", b.Reference, b.Category, truncate(b.Title, 40), b.Status())
				printed++
			}
			if printed == 0 {
				fmt.Println("No bills found")
			}
			return nil
		},
	}

	cmd.Flags().String("status", "", "Only show bills whose status starts with this text")
	cmd.Flags().String("proposer", "", "Only show bills proposed by this Discord user id")
	return cmd
}

func sessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Show the current legislative session",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("Session:        %d\n", store.Session())
			fmt.Printf("Bills:          %d\n", len(store.List()))
			fmt.Printf("Open rounds:    %d\n", len(store.OpenRounds()))
			fmt.Printf("Next number:    %03d\n", store.NextNumber())
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "advance",
		Short: "Start the next session (stop the bot first)",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			session, err := store.AdvanceSession(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("Now in session %d\n", session)
			return nil
		},
	})
	return cmd
}

func tokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an API token for a Discord user",
		Long: `Issue an HS256 token signed with the jwt_secret setting.

Example:
  congressctl token --sub 123456789012345678
  congressctl token --sub 123456789012345678 --admin --ttl 24h`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sub, _ := cmd.Flags().GetString("sub")
			admin, _ := cmd.Flags().GetBool("admin")
			ttl, _ := cmd.Flags().GetDuration("ttl")

			if sub == "" {
				return fmt.Errorf("--sub flag is required")
			}

			db, _, err := openDB()
			if err != nil {
				return err
			}
			if err := data.LoadSettings(db); err != nil {
				return fmt.Errorf("load settings: %w", err)
			}
			cfg := config.LoadAPIConfig(db)

			tok, err := webserver.IssueToken([]byte(cfg.JWTSecret), sub, admin, ttl, time.Now())
			if err != nil {
				return err
			}
			fmt.Println(tok)
			return nil
		},
	}

	cmd.Flags().String("sub", "", "Discord user id the token acts as (required)")
	cmd.Flags().Bool("admin", false, "Allow the admin endpoints")
	cmd.Flags().Duration("ttl", 30*24*time.Hour, "Token lifetime, 0 for no expiry")
	return cmd
}

func chambersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chambers [file]",
		Short: "Validate the chamber role and channel file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) > 0 {
				path = args[0]
			} else {
				boot, err := config.LoadBootstrap()
				if err != nil {
					return err
				}
				path = boot.ChambersFile
			}

			chambers, err := config.LoadChambers(path)
			if err != nil {
				return err
			}
			fmt.Printf("%s is valid\n", path)
			fmt.Printf("  House approver role:  %s\n", chambers.Roles.Speaker)
			fmt.Printf("  Senate approver role: %s\n", chambers.Roles.MajorityLeader)
			if chambers.Channels.PassedLaws == "" {
				fmt.Println("  warning: passedLaws is empty, enactments will not be announced")
			}
			return nil
		},
	}
}

func commandsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "commands",
		Short: "Manage the guild's slash commands",
	}

	withSession := func(fn func(s *discordgo.Session, guildID string) error) error {
		db, _, err := openDB()
		if err != nil {
			return err
		}
		base := config.LoadBase(db)
		if base.Token == "" || base.GuildID == "" {
			return fmt.Errorf("discord_token and guild_id must be configured")
		}
		s, err := discordgo.New("Bot " + base.Token)
		if err != nil {
			return err
		}
		if err := s.Open(); err != nil {
			return fmt.Errorf("open discord session: %w", err)
		}
		defer s.Close()
		return fn(s, base.GuildID)
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "register",
		Short: "Register every legislature command",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(func(s *discordgo.Session, guildID string) error {
				if err := shareddiscord.RegisterSlashCommands(s, guildID); err != nil {
					return err
				}
				fmt.Printf("Registered %d commands\n", len(shareddiscord.DefaultCommandOrder))
				return nil
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete every slash command registered in the guild",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(func(s *discordgo.Session, guildID string) error {
				if err := shareddiscord.DeleteSlashCommands(s, guildID); err != nil {
					return err
				}
				fmt.Println("Slash commands cleared")
				return nil
			})
		},
	})
	return cmd
}

func truncate(s string, n int) string {
	if len([]rune(s)) <= n {
		return s
	}
	return string([]rune(s)[:n-3]) + "..."
}
