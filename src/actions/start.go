package actions

import (
	"context"
	"fmt"
	"log"

	legislaturemodule "github.com/stake-plus/congressrp/src/actions/legislature"
	"github.com/stake-plus/congressrp/src/api/webserver"
	"github.com/stake-plus/congressrp/src/config"
	"github.com/stake-plus/congressrp/src/data"
	"github.com/stake-plus/congressrp/src/data/bills"
	"github.com/stake-plus/congressrp/src/workflow"
	"gorm.io/gorm"
)

// eventStreamMaxLen caps the Redis bill event stream.
const eventStreamMaxLen = 10000

// StartAll wires the bill store, workflow engine and the enabled front-ends,
// then starts the manager.
func StartAll(ctx context.Context, db *gorm.DB, boot config.Bootstrap) (*Manager, error) {
	mgr := NewManager()

	legCfg := config.LoadLegislatureConfig(db)
	apiCfg := config.LoadAPIConfig(db)
	log.Printf("actions: legislature Enabled: %v, VoteDuration: %s, API Enabled: %v",
		legCfg.Enabled, legCfg.VoteDuration, apiCfg.Enabled)

	var repo bills.Repository = bills.NewGormRepository(db)
	if boot.Ephemeral {
		log.Printf("actions: EPHEMERAL set, bills will not survive a restart")
		repo = bills.NewMemoryRepository()
	}
	store := bills.NewStore(repo, bills.Options{CounterStart: legCfg.CounterStart})
	if err := store.Init(ctx); err != nil {
		return nil, fmt.Errorf("actions: init bill store: %w", err)
	}

	var notifiers workflow.Notifiers
	if boot.RedisURL != "" {
		rdb, err := data.ConnectRedis(ctx, boot.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("actions: %w", err)
		}
		notifiers = append(notifiers, data.NewEventPublisher(rdb, eventStreamMaxLen))
		log.Printf("actions: publishing bill events to redis stream %s", data.StreamBillEvents)
	}

	var (
		legislatureMod *legislaturemodule.Module
		auth           workflow.Authorizer
	)
	if legCfg.Enabled {
		chambers, err := config.LoadChambers(boot.ChambersFile)
		if err != nil {
			return nil, fmt.Errorf("actions: load chambers: %w", err)
		}
		mod, err := legislaturemodule.NewModule(&legCfg, chambers)
		if err != nil {
			return nil, fmt.Errorf("actions: init legislature module: %w", err)
		}
		legislatureMod = mod
		notifiers = append(notifiers, mod.Notifier())
		auth = mod.Authorizer()
	} else {
		log.Printf("actions: legislature module disabled via configuration")
	}

	if auth == nil {
		log.Printf("actions: no chamber roles without Discord; votes open only via POST /v1/admin/bills/:ref/open and impeachment is unavailable")
	}

	engineCfg := workflow.Config{VoteDuration: legCfg.VoteDuration}
	if legCfg.RestrictToMembers {
		engineCfg.Eligibility = workflow.MembersOnly(auth)
	}
	engine := workflow.New(store, notifiers, auth, engineCfg)
	if err := mgr.Add(engine); err != nil {
		return nil, fmt.Errorf("actions: add workflow engine: %w", err)
	}

	if legislatureMod != nil {
		legislatureMod.Attach(engine)
		if err := mgr.Add(legislatureMod); err != nil {
			return nil, fmt.Errorf("actions: add legislature module: %w", err)
		}
	}

	if apiCfg.Enabled {
		mod, err := webserver.NewModule(apiCfg, engine)
		if err != nil {
			return nil, fmt.Errorf("actions: init api module: %w", err)
		}
		if err := mgr.Add(mod); err != nil {
			return nil, fmt.Errorf("actions: add api module: %w", err)
		}
	} else {
		log.Printf("actions: API module disabled via configuration")
	}

	if err := mgr.Start(ctx); err != nil {
		return nil, err
	}

	return mgr, nil
}
