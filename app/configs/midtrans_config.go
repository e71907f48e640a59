package configs

import (
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
	"go.uber.org/zap"
)

func MidtransEnvironment(env ENV) midtrans.EnvironmentType {
	if env.MidtransEnv == "production" {
		return midtrans.Production
	}
	return midtrans.Sandbox
}

func NewSnapClient(env ENV) *snap.Client {
	var client snap.Client
	client.New(env.MidtransServerKey, MidtransEnvironment(env))
	midtrans.ClientKey = env.MidtransClientKey
	midtrans.ServerKey = env.MidtransServerKey
	midtrans.Environment = MidtransEnvironment(env)
	zap.S().Infof("midtrans snap client initialized (%s)", env.MidtransEnv)
	return &client
}
