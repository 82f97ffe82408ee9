package container

import (
	"sync"

	"github.com/oksasatya/go-ddd-auth/internal/application"
	"github.com/oksasatya/go-ddd-auth/internal/domain/event"
	"github.com/oksasatya/go-ddd-auth/internal/domain/repository"
	"github.com/oksasatya/go-ddd-auth/internal/domain/service"
	"github.com/oksasatya/go-ddd-auth/internal/infrastructure/cache"
	"github.com/oksasatya/go-ddd-auth/internal/infrastructure/memory"
	"github.com/oksasatya/go-ddd-auth/internal/infrastructure/messaging"
	"github.com/oksasatya/go-ddd-auth/internal/infrastructure/postgres"
	"github.com/oksasatya/go-ddd-auth/internal/infrastructure/search"
	evstore "github.com/oksasatya/go-ddd-auth/internal/infrastructure/storage"
	"github.com/oksasatya/go-ddd-auth/pkg/helpers"
	"github.com/oksasatya/go-ddd-auth/pkg/mailer/templates"
)

const bcryptCost = 12

var (
	wireMu   sync.Mutex
	userRepo repository.UserRepository
	userSvc  *service.UserService
)

func resetWiring() {
	wireMu.Lock()
	userRepo, userSvc = nil, nil
	wireMu.Unlock()
}

// UserRepository picks the store from DB_DRIVER and puts the redis cache in
// front of it when redis is configured.
func UserRepository() repository.UserRepository {
	wireMu.Lock()
	defer wireMu.Unlock()
	if userRepo != nil {
		return userRepo
	}
	var repo repository.UserRepository
	if cfg != nil && cfg.DBDriver == "memory" {
		repo = memory.NewUserRepository()
	} else {
		repo = postgres.NewUserRepository(pgPool)
	}
	if redisClient != nil && cfg != nil && cfg.UserCacheTTL > 0 {
		repo = cache.NewUserRepository(repo, redisClient, cfg.UserCacheTTL, logger)
	}
	userRepo = repo
	return userRepo
}

func PasswordHasher() service.PasswordHasher {
	return helpers.NewBcryptHasher(bcryptCost)
}

// UserService is built once so every module shares one publisher.
func UserService() *service.UserService {
	wireMu.Lock()
	svc := userSvc
	wireMu.Unlock()
	if svc != nil {
		return svc
	}
	svc = service.NewUserService(UserRepository(), PasswordHasher(), Publisher(), logger)

	wireMu.Lock()
	defer wireMu.Unlock()
	if userSvc == nil {
		userSvc = svc
	}
	return userSvc
}

func AuthenticationService() *application.AuthenticationService {
	return application.NewAuthenticationService(jwtManager, UserRepository(), logger)
}

// UserIndex is nil without Elasticsearch.
func UserIndex() *search.UserIndex {
	if esClient == nil || cfg == nil {
		return nil
	}
	return search.NewUserIndex(esClient, cfg.ESUsersIndex)
}

// Searcher returns UserIndex as an application.UserSearcher, keeping a nil
// index a nil interface.
func Searcher() application.UserSearcher {
	if x := UserIndex(); x != nil {
		return x
	}
	return nil
}

// EventHandler assembles the reaction to domain events from whatever sinks
// are configured.
func EventHandler() *application.EventHandler {
	h := &application.EventHandler{Repo: UserRepository(), Mail: mailSender, Logger: logger}
	if x := UserIndex(); x != nil {
		h.Indexer = x
	}
	if gcsClient != nil && cfg != nil && cfg.GCSBucket != "" {
		h.Archiver = evstore.NewEventArchive(gcsClient, cfg.GCSBucket, cfg.GCSEventsPrefix)
	}
	if cfg != nil {
		h.Brand = templates.Brand{
			AppName:        cfg.AppName,
			CompanyName:    cfg.CompanyName,
			CompanyAddress: cfg.CompanyAddress,
			LogoURL:        cfg.LogoURL,
			SupportURL:     cfg.SupportURL,
			LoginURL:       cfg.LoginURL,
		}
	}
	return h
}

// Publisher always logs events. With a broker they are queued for the
// worker; without one they are handled in-process.
func Publisher() event.Publisher {
	pubs := messaging.MultiPublisher{}
	if logger != nil {
		pubs = append(pubs, messaging.LogPublisher{Logger: logger})
	}
	if rabbit != nil {
		pubs = append(pubs, messaging.NewRabbitPublisher(rabbit.Ch, rabbit.Queue, logger))
	} else {
		pubs = append(pubs, messaging.InlinePublisher{Handler: EventHandler()})
	}
	return pubs
}
