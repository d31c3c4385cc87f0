// Package legislature is the Discord face of the Congress workflow: slash
// commands, ballot buttons and the chamber announcements.
package legislature

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/stake-plus/congressrp/src/actions/core"
	"github.com/stake-plus/congressrp/src/config"
	shareddiscord "github.com/stake-plus/congressrp/src/discord"
	"github.com/stake-plus/congressrp/src/workflow"
)

var _ core.Module = (*Module)(nil)

type Module struct {
	config     *config.LegislatureConfig
	chambers   config.Chambers
	session    *discordgo.Session
	handler    *Handler
	notifier   *Notifier
	authorizer *RoleAuthorizer

	mu         sync.Mutex
	runtimeCtx context.Context
	cancel     context.CancelFunc
}

// NewModule creates the Discord session and the notifier/authorizer the workflow
// engine needs. Call Attach with the engine before Start.
func NewModule(cfg *config.LegislatureConfig, chambers config.Chambers) (*Module, error) {
	if cfg.Base.Token == "" {
		return nil, fmt.Errorf("legislature: discord token is not configured")
	}
	session, err := discordgo.New("Bot " + cfg.Base.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMembers

	module := &Module{
		config:     cfg,
		chambers:   chambers,
		session:    session,
		notifier:   NewNotifier(session, chambers),
		authorizer: NewRoleAuthorizer(session, cfg.Base.GuildID, chambers),
	}
	module.initHandlers()
	return module, nil
}

// Name implements core.Module.
func (m *Module) Name() string { return "legislature" }

// Notifier posts workflow transitions to Discord.
func (m *Module) Notifier() workflow.Notifier { return m.notifier }

// Authorizer resolves approver and member roles.
func (m *Module) Authorizer() workflow.Authorizer { return m.authorizer }

// Attach hands the module the engine its commands drive.
func (m *Module) Attach(engine *workflow.Engine) {
	m.handler = &Handler{Engine: engine, GuildID: m.config.Base.GuildID}
}

func (m *Module) initHandlers() {
	m.session.AddHandler(m.onReady)
	m.session.AddHandler(m.onInteractionCreate)
}

func (m *Module) onReady(s *discordgo.Session, r *discordgo.Ready) {
	log.Printf("legislature: logged in as %s", s.State.User.Username)

	if err := shareddiscord.RegisterSlashCommands(s, m.config.Base.GuildID); err != nil {
		log.Printf("legislature: failed to register slash commands: %v", err)
	} else {
		log.Printf("legislature: slash commands registered")
	}
}

func (m *Module) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := m.context()
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		m.handler.HandleSlash(ctx, s, i)
	case discordgo.InteractionMessageComponent:
		m.handler.HandleComponent(ctx, s, i)
	}
}

func (m *Module) context() context.Context {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.runtimeCtx == nil {
		return context.Background()
	}
	return m.runtimeCtx
}

func (m *Module) Start(ctx context.Context) error {
	if m.handler == nil {
		return fmt.Errorf("legislature: no workflow engine attached")
	}

	runtimeCtx, cancel := context.WithCancel(ctx)
	m.mu.Lock()
	m.runtimeCtx = runtimeCtx
	m.cancel = cancel
	m.mu.Unlock()

	if err := m.session.Open(); err != nil {
		cancel()
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}
	return nil
}

func (m *Module) Stop(ctx context.Context) {
	m.mu.Lock()
	if m.cancel != nil {
		m.cancel()
	}
	m.runtimeCtx = nil
	m.mu.Unlock()

	if m.session != nil {
		m.session.Close()
	}
}
