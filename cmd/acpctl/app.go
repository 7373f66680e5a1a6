package main

import (
	"context"
	"fauxhr-service/internal/app/config"
	"fauxhr-service/internal/app/contracts"
	"fauxhr-service/internal/app/drivers/database"
	"fauxhr-service/internal/app/drivers/logger"
	"fauxhr-service/internal/app/services/core/acp"
	"fauxhr-service/internal/app/services/fhir_spark/resources"
	"fauxhr-service/internal/app/services/shared/appstate"
	"fauxhr-service/internal/app/services/shared/cache"
	"fauxhr-service/internal/app/services/shared/redis"
	"fauxhr-service/internal/pkg/constvars"
	"io"
	"os"

	"github.com/goccy/go-json"
	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// cliApp holds the usecases one command invocation works with.
type cliApp struct {
	log       *zap.Logger
	redis     *goredis.Client
	state     *appstate.AppState
	queries   contracts.AcpQueryUsecase
	overview  contracts.AcpIntegratedDataUsecase
	serverURL string
}

func newCLIApp(cmd *cobra.Command) (*cliApp, error) {
	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()

	log, err := logger.NewCLILogger(driverConfig)
	if err != nil {
		return nil, err
	}

	app := &cliApp{log: log}

	var redisRepository contracts.RedisRepository
	if internalConfig.Cache.Backend == constvars.CacheBackendRedis {
		app.redis, err = database.NewRedisClient(cmd.Context(), driverConfig)
		if err != nil {
			return nil, err
		}
		redisRepository = redis.NewRedisRepository(app.redis)
	}

	resourceStore, err := cache.NewResourceStore(internalConfig.Cache, redisRepository, log)
	if err != nil {
		app.close()
		return nil, err
	}

	app.state = appstate.NewAppState(
		internalConfig.FHIR.BaseUrl,
		internalConfig.ACP.ReferenceResolutionDepth,
		internalConfig.ACP.ResolverConcurrency,
		log,
	)

	if server, _ := cmd.Flags().GetString("server"); server != "" {
		if _, err := app.state.SetServerURL(server); err != nil {
			app.close()
			return nil, err
		}
	}
	if depth, _ := cmd.Flags().GetInt("depth"); depth > 0 {
		app.state.SetReferenceResolutionDepth(depth)
	}
	app.serverURL = app.state.ServerURL()

	fhirClients := resources.NewFhirClientRegistry(resources.NewClientSettings(internalConfig.FHIR), app.state, log)
	resolver := acp.NewReferenceResolver(fhirClients, resourceStore.Cache, resourceStore.Writer, log)
	app.queries = acp.NewAcpQueryUsecase(fhirClients, resourceStore.Writer, resolver, app.state, log)
	app.overview = acp.NewAcpIntegratedDataUsecase(resourceStore.Cache, log)
	return app, nil
}

func (a *cliApp) close() {
	if a.redis != nil {
		_ = a.redis.Close()
	}
	_ = a.log.Sync()
}

func withApp(run func(ctx context.Context, app *cliApp, cmd *cobra.Command) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		app, err := newCLIApp(cmd)
		if err != nil {
			return err
		}
		defer app.close()
		return run(cmd.Context(), app, cmd)
	}
}

func printJSON(w io.Writer, value interface{}) error {
	encoded, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(append(encoded, '\n'))
	return err
}

// readResources accepts a Bundle, a JSON array of resources or a single resource.
func readResources(path string) ([]json.RawMessage, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}

	var list []json.RawMessage
	if err := json.Unmarshal(data, &list); err == nil {
		return list, nil
	}

	var bundle struct {
		ResourceType string `json:"resourceType"`
		Entry        []struct {
			Resource json.RawMessage `json:"resource"`
		} `json:"entry"`
	}
	if err := json.Unmarshal(data, &bundle); err != nil {
		return nil, err
	}
	if bundle.ResourceType != constvars.ResourceBundle {
		return []json.RawMessage{data}, nil
	}
	for _, entry := range bundle.Entry {
		if len(entry.Resource) > 0 {
			list = append(list, entry.Resource)
		}
	}
	return list, nil
}
