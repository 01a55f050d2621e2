package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/go-playground/validator/v10"
	"github.com/tradeport/goapi/base/ctx"
	"github.com/tradeport/goapi/base/database/mongoclient"
	"github.com/tradeport/goapi/base/log"
	pricefomatter "github.com/tradeport/goapi/base/price_fomatter"
	bValidator "github.com/tradeport/goapi/base/validator"
	"github.com/tradeport/goapi/domain"
	dLedger "github.com/tradeport/goapi/domain/ledger"
	mmiddleware "github.com/tradeport/goapi/middleware"
	"github.com/tradeport/goapi/service/cache"
	"github.com/tradeport/goapi/service/cache/provider/primitive"
	"github.com/tradeport/goapi/service/chain"
	"github.com/tradeport/goapi/service/chain/contract"
	"github.com/tradeport/goapi/service/query"
	ledger_delivery "github.com/tradeport/goapi/stores/ledger/delivery/http"
	ledger_usecase "github.com/tradeport/goapi/stores/ledger/usecase"
	listing_usecase "github.com/tradeport/goapi/stores/listing/usecase"
	marketplace_delivery "github.com/tradeport/goapi/stores/marketplace/delivery/http"
	marketplace_repository "github.com/tradeport/goapi/stores/marketplace/repository"
	marketplace_usecase "github.com/tradeport/goapi/stores/marketplace/usecase"
	payment_delivery "github.com/tradeport/goapi/stores/payment/delivery/http"
	payment_usecase "github.com/tradeport/goapi/stores/payment/usecase"
	royalty_delivery "github.com/tradeport/goapi/stores/royalty/delivery/http"
	royalty_repository "github.com/tradeport/goapi/stores/royalty/repository"
	royalty_usecase "github.com/tradeport/goapi/stores/royalty/usecase"
)

func init() {
	configFile := pflag.String("config", "infra/configs/config.yaml", "path to config file")
	pflag.Parse()

	viper.SetConfigType("yaml")
	viper.SetConfigFile(*configFile)
	err := viper.ReadInConfig()
	if err != nil {
		panic(err)
	}

	if viper.GetBool(`debug`) {
		log.Log().Info("Service RUN on DEBUG mode")
	}
}

func main() {
	// init echo
	e := echo.New()
	e.Use(middleware.Recover())
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{}))
	e.Use(middleware.RequestID())
	middL := mmiddleware.InitMiddleware()
	e.Use(middL.ResponseLogger())
	e.Use(middL.AddContext())
	e.Use(middleware.CORS())
	e.Validator = bValidator.NewCustomValidator(validator.New())

	context := ctx.Background()

	// init mongo client
	context.Info("init mongo")
	uri := viper.GetString("mongo.uri")
	authDBName := viper.GetString("mongo.authDBName")
	dbName := viper.GetString("mongo.dbName")
	enableSSL := viper.GetBool("mongo.enableSSL")
	checkIndex := viper.GetBool("mongo.checkIndex")
	mongoClient := mongoclient.MustConnectMongoClient(uri, authDBName, dbName, enableSSL, true, 2)
	q := query.New(mongoClient, checkIndex)

	// init in-process cache
	cacheSizeMb := viper.GetInt("cache.sizeMb")
	if cacheSizeMb == 0 {
		cacheSizeMb = 32
	}
	royaltyCache := cache.New(cache.ServiceConfig{
		Ttl:   viper.GetDuration("cache.royaltyTtl"),
		Pfx:   "royalty",
		Cache: primitive.NewPrimitive("royalty", cacheSizeMb),
	})

	// init chain service
	var chainService chain.Client
	rpcs := make(map[int32]string)
	if networks := viper.Sub("networks"); networks != nil {
		for k := range networks.AllSettings() {
			chainId := networks.GetInt32(fmt.Sprintf("%s.chainId", k))
			rpcs[chainId] = networks.GetString(fmt.Sprintf("%s.rpcUrl", k))
		}
	}
	if len(rpcs) > 0 {
		var err error
		chainService, err = chain.NewClient(context, &chain.ClientCfg{RpcUrls: rpcs})
		if err != nil {
			context.WithField("err", err).Warn("chainService started with error")
		}
	}

	// settlement backend and ownership ledger
	operator := domain.Address(viper.GetString("marketplace.operator")).ToLower()
	bank := payment_usecase.NewBank(operator)
	assetLedger := ledger_usecase.NewAssetLedger()

	// owner lookups for assets never minted locally fall back to chain
	var chainLedger dLedger.Ledger
	if chainService != nil {
		chainLedger = ledger_usecase.NewChainLedger(contract.NewErc721(chainService))
	}

	// construct repository, usecase and delivery
	eventRepo := marketplace_repository.NewEventRepo(q)
	registry := listing_usecase.NewListingRegistry(&listing_usecase.ListingRegistryCfg{
		Ledger:    assetLedger,
		EventRepo: eventRepo,
	})

	feeConfigRepo := royalty_repository.NewFeeConfigRepo(q)
	var royaltySource = royalty_usecase.NewConfigSource(&royalty_usecase.ConfigSourceCfg{
		Repo:  feeConfigRepo,
		Cache: royaltyCache,
	})
	if chainService != nil && viper.GetString("royalty.source") == "engine" {
		engineAddrs := make(map[domain.ChainId]domain.Address)
		if engines := viper.Sub("royalty.engines"); engines != nil {
			for k := range engines.AllSettings() {
				chainId := domain.ChainId(engines.GetInt32(fmt.Sprintf("%s.chainId", k)))
				engineAddrs[chainId] = domain.Address(engines.GetString(fmt.Sprintf("%s.address", k))).ToLower()
			}
		}
		royaltySource = royalty_usecase.NewEngineSource(&royalty_usecase.EngineSourceCfg{
			Engine:      contract.NewRoyaltyEngine(chainService),
			EngineAddrs: engineAddrs,
		})
	}
	calculator := royalty_usecase.NewCalculator(&royalty_usecase.CalculatorCfg{Source: royaltySource})
	royaltyAdmin := royalty_usecase.NewConfigAdmin(&royalty_usecase.ConfigAdminCfg{
		Repo:  feeConfigRepo,
		Cache: royaltyCache,
	})

	processor := payment_usecase.NewProcessor(&payment_usecase.ProcessorCfg{
		Native: bank,
		Token:  bank,
	})

	var priceFormatterCfg pricefomatter.PriceFormatterCfg
	if chainService != nil {
		priceFormatterCfg.Erc20 = contract.NewErc20(chainService)
	}
	priceFormatter := pricefomatter.NewPriceFormatter(&priceFormatterCfg)

	marketplaceUseCase := marketplace_usecase.New(&marketplace_usecase.MarketplaceCfg{
		Registry:        registry,
		Ledger:          assetLedger,
		Calculator:      calculator,
		Processor:       processor,
		Token:           bank,
		EventRepo:       eventRepo,
		Escrow:          bank,
		Reverser:        bank,
		Operator:        operator,
		PriceFormatter:  priceFormatter,
		PurchaseTimeout: viper.GetDuration("marketplace.purchaseTimeout"),
	})

	marketplace_delivery.New(e, marketplaceUseCase)
	royalty_delivery.New(e, royaltyAdmin, feeConfigRepo)
	ledger_delivery.New(e, assetLedger, chainLedger)
	payment_delivery.New(e, bank)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{"status": "ok"})
	})

	go func() {
		if err := e.Start(viper.GetString("server.address")); err != nil && err != http.ErrServerClosed {
			log.Log().WithField("err", err).Error("shutting down the server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 10 seconds.
	// Use a buffered channel to avoid missing signals as recommended for signal.Notify
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	sig := <-quit
	log.Log().WithField("signal", sig).Info("received signal")
	ctx, cancel := ctx.WithTimeout(context, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Log().WithField("err", err).Error("shutting down the server")
	} else {
		log.Log().Info("shutdown server successfully")
	}
}
