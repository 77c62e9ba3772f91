package main

import (
	"flag"

	"dotpay/config"
	"dotpay/internal"
	"dotpay/services"
)

func main() {

	logger := internal.NewLogger("main", false, nil)

	configPath := flag.String("conf", "config.yml", "path to config file")
	flag.Parse()

	logger.Info("using config file: " + *configPath)
	conf, err := config.GetConfig(*configPath)
	if err != nil {
		logger.Error("boot", err)
		return
	}

	var database services.Database
	if conf.Mongo.Enabled {
		mongo, err := internal.NewMongoClient(conf)
		if err != nil {
			logger.Error("mongo client", err)
			return
		}
		database = mongo
		logger.Info("mongo client initialized")
	}

	resource := internal.NewResource()
	resource.SetCredentials(conf.Seller.Username, conf.Seller.Password)
	resource.SetLogger(internal.NewLogger("resource", conf.IsDebug, database))

	lister := internal.NewChannelLister(conf, resource)
	lister.SetLogger(internal.NewLogger("channels", conf.IsDebug, database))

	sellerApi := internal.NewSellerApi(conf, resource)
	sellerApi.SetLogger(internal.NewLogger("seller_api", conf.IsDebug, database))

	register := internal.NewRegisterOrder(conf, resource)
	register.SetLogger(internal.NewLogger("register", conf.IsDebug, database))

	updater := internal.NewPaymentUpdater(database)
	updater.SetLogger(internal.NewLogger("payments", conf.IsDebug, database))

	confirmation := internal.NewConfirmation(conf)
	confirmation.SetDatabase(database)
	confirmation.SetLogger(internal.NewLogger("confirmation", conf.IsDebug, database))
	confirmation.SetPaymentAction(updater)
	confirmation.SetRefundAction(updater)
	confirmation.SetSellerApi(sellerApi)

	back := internal.NewBack()
	back.SetLogger(internal.NewLogger("back", conf.IsDebug, database))

	server := internal.NewServer(conf)
	server.SetLogger(internal.NewLogger("server", conf.IsDebug, database))
	server.SetChannelLister(lister)
	server.SetConfirmation(confirmation)
	server.SetBack(back)
	server.SetRegisterOrder(register)
	server.SetSellerApi(sellerApi)
	server.SetDatabase(database)

	err = server.Start()
	if err != nil {
		logger.Error("server start", err)
		return
	}

}
