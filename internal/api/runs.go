package api

import (
	"crypto/md5"
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"github.com/chessvlm/rulebench/internal/dao"
	"github.com/chessvlm/rulebench/internal/runner"
	"github.com/gin-gonic/gin"
)

type BenchApi struct {
	RunRepository      dao.RunRepository
	BenchWorkerFactory *runner.BenchWorkerFactory
	activeJobs         map[string]runner.Worker
	totalJobs          int
	mu                 sync.RWMutex
}

func NewBenchApi(runRepo dao.RunRepository, workerFactory *runner.BenchWorkerFactory) *BenchApi {
	return &BenchApi{
		runRepo,
		workerFactory,
		make(map[string]runner.Worker, 0),
		0,
		sync.RWMutex{},
	}
}

func (b *BenchApi) Run(ctx *gin.Context) {
	runID := ctx.Param("run_id")

	record, err := b.RunRepository.GetRun(runID)
	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{
			"error": err.Error(),
		})
		return
	}
	ctx.JSON(http.StatusOK, record)
}

func (b *BenchApi) LastRun(ctx *gin.Context) {
	model := ctx.Query("model")
	if model == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": "model query parameter is required",
		})
		return
	}

	record, err := b.RunRepository.GetLastRunForModel(model)
	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{
			"error": err.Error(),
		})
		return
	}
	ctx.JSON(http.StatusOK, record)
}

func (b *BenchApi) RandomResult(ctx *gin.Context) {
	ruleType := ctx.DefaultQuery("type", "movement")

	result, err := b.RunRepository.GetRandomResultForType(ruleType)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}
	ctx.JSON(http.StatusOK, result)
}

func (b *BenchApi) StartBench(ctx *gin.Context) {
	casesStr := ctx.DefaultQuery("cases", "0")
	cases, err := strconv.Atoi(casesStr)
	if err != nil || cases < 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": "cases should be a non-negative integer",
		})
		return
	}

	worker := b.BenchWorkerFactory.CreateBenchWorker(cases)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.totalJobs++
	byteValue := []byte(strconv.Itoa(b.totalJobs))
	id := fmt.Sprintf("%x", md5.Sum(byteValue))
	b.activeJobs[id] = &worker
	worker.StartWork()
	ctx.JSON(http.StatusOK, gin.H{
		"job_id": id,
	})
}

func (b *BenchApi) GetJobStatus(ctx *gin.Context) {
	id := ctx.Param("job_id")
	b.mu.Lock()
	defer b.mu.Unlock()
	worker, ok := b.activeJobs[id]
	if !ok {
		ctx.AbortWithStatus(http.StatusNotFound)
		return
	}
	done := worker.Done()
	if done {
		delete(b.activeJobs, id)
		if worker.Error() != nil {
			ctx.JSON(http.StatusOK, gin.H{
				"done":  done,
				"error": worker.Error().Error(),
			})
		} else {
			ctx.JSON(http.StatusOK, gin.H{
				"done":   done,
				"result": worker.Result(),
			})
		}
	} else {
		ctx.JSON(http.StatusOK, gin.H{
			"done":     done,
			"progress": worker.Progress(),
		})
	}
}
