package main

import (
	"github.com/chessvlm/rulebench/internal/answerer"
	"github.com/chessvlm/rulebench/internal/api"
	"github.com/chessvlm/rulebench/internal/config"
	"github.com/chessvlm/rulebench/internal/dao"
	"github.com/chessvlm/rulebench/internal/db"
	"github.com/chessvlm/rulebench/internal/runner"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.InitConfig()
	if err != nil {
		panic(err)
	}

	dbClient, err := db.NewDbClient(cfg)
	if err != nil {
		panic(err)
	}
	defer dbClient.Close()

	runRepo := dao.NewRunRepository(dbClient)
	model := answerer.NewOpenAIAnswerer(cfg)
	workerFactory := runner.NewBenchWorkerFactory(cfg, model, runRepo)
	benchApi := api.NewBenchApi(runRepo, workerFactory)

	r := gin.Default()
	r.GET("/run/last", benchApi.LastRun)
	r.GET("/run/:run_id", benchApi.Run)
	r.GET("/result", benchApi.RandomResult)
	r.POST("/bench", benchApi.StartBench)
	r.GET("/bench/:job_id", benchApi.GetJobStatus)

	err = r.Run(cfg.Server.Host + ":" + cfg.Server.Port)
	if err != nil {
		panic(err)
	}
}
