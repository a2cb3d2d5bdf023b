package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"time"

	"github.com/abhash31/ai-booking-assistant/internal/providers/repository"
	"github.com/abhash31/ai-booking-assistant/internal/providers/service"
	"github.com/abhash31/ai-booking-assistant/internal/providers/validator"
	"github.com/abhash31/ai-booking-assistant/pkg/config"
	"github.com/abhash31/ai-booking-assistant/pkg/model"
)

const JobName = "provider-seed"

// Loads a JSON array of providers into the registry. Records are validated
// up front; one bad record rejects the whole file.
func main() {
	file := flag.String("file", "providers.json", "path to a JSON array of providers")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	cfg := config.Load(JobName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	providers, err := readProviders(*file)
	if err != nil {
		cfg.Log.Fatal("Failed to read provider file", "file", *file, "error", err)
	}

	svc := service.NewProviderService(
		repository.NewMongoProviderRepository(cfg),
		validator.NewProviderValidator(),
		cfg,
	)

	if err := svc.ImportMany(ctx, providers); err != nil {
		cfg.Log.Fatal("Failed to import providers", "file", *file, "error", err)
	}

	cfg.Log.Info("Providers imported", "file", *file, "count", len(providers))
}

func readProviders(path string) ([]*model.Provider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var providers []*model.Provider
	if err := json.Unmarshal(data, &providers); err != nil {
		return nil, err
	}

	return providers, nil
}
