package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	config "gitlab.com/maplesense1/tlg.sensor_api/src/production/TLG.Config"
	"gitlab.com/maplesense1/tlg.sensor_api/src/production/TLG.Deploy/deployer"
	logger "gitlab.com/maplesense1/tlg.sensor_api/src/production/TLG.Logger"
)

// Interactive deployment: pick a function and a stage, make sure the secrets
// exist, build every function and run serverless deploy.
func main() {
	log := logger.NewLogger(&config.LoggingConfig{Level: "info", Format: "text", Output: "stderr"})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	prompter := deployer.NewPrompter(os.Stdin, os.Stdout)

	functions, err := deployer.ListFunctions("serverless.yml")
	if err != nil {
		log.FatalWithError(err, "Failed to list functions")
	}
	function, err := prompter.Choose("Deploy which function?", append([]string{deployer.AllFunctions}, functions...))
	if err != nil {
		log.FatalWithError(err, "No function selected")
	}

	stage, err := deployer.SelectStage(prompter)
	if err != nil {
		log.FatalWithError(err, "No stage selected")
	}
	log.Logger.Info().Str("stage", stage).Msg("Deploying to stage")

	env, err := deployer.CheckEnv(".env", deployer.RequiredEnv)
	if err != nil {
		log.FatalWithError(err, "See the README for the required .env format")
	}
	log.Logger.Info().Str("app", env["APP_NAME"]).Msg("Loaded .env")

	created, err := deployer.EnsureGeneratedEnv("generated.env", func() (string, error) {
		return prompter.Input("Create a password for accessing api and dashboard")
	})
	if err != nil {
		log.FatalWithError(err, "Failed to create generated.env")
	}
	if created {
		log.Info("Created generated.env")
	}

	d := deployer.NewDeployer(deployer.ExecRunner{Stdout: os.Stdout, Stderr: os.Stderr}, "build", log)
	if err := d.Build(ctx, functions); err != nil {
		log.FatalWithError(err, "Build failed")
	}
	if err := d.Deploy(ctx, stage, function); err != nil {
		log.FatalWithError(err, "Deploy failed")
	}
	log.Info("Deployment complete")
}
