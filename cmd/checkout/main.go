package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/kartikmehra/shopkart-backend/internal/checkout"
	"github.com/kartikmehra/shopkart-backend/internal/clientstate"
	"github.com/kartikmehra/shopkart-backend/pkg/config"
	"github.com/kartikmehra/shopkart-backend/pkg/enums"
	"github.com/kartikmehra/shopkart-backend/pkg/logger"
	"github.com/kartikmehra/shopkart-backend/pkg/redis"
)

// Shopper-facing checkout runner: loads the shopper's stored cart and
// profile, applies shipping overrides from flags, and submits the order to
// the storefront API.
func main() {
	logg := logger.New(logger.Options{ServiceName: "checkout"})

	_ = godotenv.Load()

	shopper := flag.String("shopper", "", "shopper id owning the stored cart and profile")
	name := flag.String("name", "", "override shipping name")
	email := flag.String("email", "", "override shipping email")
	phone := flag.String("phone", "", "override shipping phone")
	address := flag.String("address", "", "override shipping address")
	payment := flag.String("payment", "", "payment method: cod|upi|card")
	flag.Parse()

	if *shopper == "" {
		fmt.Fprintln(os.Stderr, "missing -shopper")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "checkout",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
	})
	ctx := logg.WithShopperID(context.Background(), *shopper)

	redisClient, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	state, err := clientstate.NewStore(clientstate.NewRedisKV(redisClient, *shopper))
	if err != nil {
		logg.Error(ctx, "failed to build client state store", err)
		os.Exit(1)
	}

	ctrl, err := checkout.NewController(state, checkout.NewClient(cfg.Checkout), logg)
	if err != nil {
		logg.Error(ctx, "failed to build checkout controller", err)
		os.Exit(1)
	}

	flow, err := ctrl.Begin(ctx)
	if err != nil {
		exitOnAbort(err)
		logg.Error(ctx, "checkout failed to start", err)
		os.Exit(1)
	}

	overrides := map[string]string{
		"name":    *name,
		"email":   *email,
		"phone":   *phone,
		"address": *address,
	}
	for field, value := range overrides {
		if value == "" {
			continue
		}
		if err := flow.SetField(field, value); err != nil {
			logg.Error(ctx, "invalid shipping override", err)
			os.Exit(1)
		}
	}
	if *payment != "" {
		method, err := enums.ParsePaymentMethod(*payment)
		if err != nil {
			logg.Error(ctx, "invalid payment method", err)
			os.Exit(1)
		}
		if err := flow.SetPaymentMethod(method); err != nil {
			logg.Error(ctx, "invalid payment method", err)
			os.Exit(1)
		}
	}

	placement, err := flow.PlaceOrder(ctx)
	if err != nil {
		if msg := flow.VisibleError(); msg != "" {
			fmt.Fprintln(os.Stderr, msg)
		}
		os.Exit(1)
	}

	out, err := json.MarshalIndent(placement.Order, "", "  ")
	if err != nil {
		logg.Error(ctx, "failed to render order", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}

func exitOnAbort(err error) {
	var abort *checkout.Abort
	if !errors.As(err, &abort) {
		return
	}
	if abort.Message != "" {
		fmt.Fprintln(os.Stderr, abort.Message)
	}
	fmt.Fprintln(os.Stderr, "redirect:", abort.Redirect)
	os.Exit(1)
}
