package main

import (
	"context"
	"fmt"

	"github.com/aws/aws-lambda-go/lambda"

	container "gitlab.com/maplesense1/tlg.sensor_api/src/production/TLG.Container"
)

func main() {
	ctr, err := container.NewApiContainer(context.Background())
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize container: %v", err))
	}

	ctr.GetLogger().Info("Starting temperature function")
	lambda.Start(ctr.TemperatureHandler().Handle)
}
