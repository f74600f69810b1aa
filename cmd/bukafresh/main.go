// Package main bukafresh client
//
// @title           bukafresh local API
// @version         1.0
// @description     Локальный JSON API клиента подписки на продуктовые наборы bukafresh

// @host      localhost:8090
// @BasePath  /api/v1
package main

//go:generate swag init -g cmd/bukafresh/main.go -d ../../ -o ../../internal/docs

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/magabrotheeeer/bukafresh-client/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := cli.Execute(ctx)
	stop()
	os.Exit(code)
}
