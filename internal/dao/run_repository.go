package dao

import (
	"context"
	"fmt"
	"time"

	"github.com/chessvlm/rulebench/internal/db"
	"github.com/chessvlm/rulebench/pkg/eval"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RunRecord is a stored run summary keyed by its run id.
type RunRecord struct {
	RunID   string       `json:"run_id" bson:"run_id"`
	Summary eval.Summary `json:"summary" bson:"summary"`
}

// ResultRecord is one stored per-case trace, tagged with the run it came from.
type ResultRecord struct {
	RunID       string      `json:"run_id" bson:"run_id"`
	eval.Result `bson:",inline"`
}

type RunRepository interface {
	InsertRun(record RunRecord) error

	InsertResults(runID string, results []eval.Result) error

	GetRun(runID string) (RunRecord, error)

	GetLastRunForModel(modelName string) (RunRecord, error)

	GetRunsBetweenDates(startTime primitive.DateTime, endTime primitive.DateTime) ([]RunRecord, error)

	GetRandomResultForType(ruleType string) (ResultRecord, error)
}

type runRepository struct {
	dbClient *db.RunDbClient
}

func NewRunRepository(dbClient *db.RunDbClient) RunRepository {
	return &runRepository{dbClient}
}

func (r *runRepository) InsertRun(record RunRecord) error {
	ctx, cancel := context.WithTimeout(context.TODO(), time.Second)
	defer cancel()

	_, err := r.dbClient.RunCollection.InsertOne(ctx, record)
	return err
}

func (r *runRepository) InsertResults(runID string, results []eval.Result) error {
	ctx, cancel := context.WithTimeout(context.TODO(), 10*time.Second)
	defer cancel()

	docs := make([]interface{}, 0, len(results))
	for _, res := range results {
		docs = append(docs, ResultRecord{RunID: runID, Result: res})
	}
	_, err := r.dbClient.ResultCollection.InsertMany(ctx, docs)
	return err
}

func (r *runRepository) GetRun(runID string) (RunRecord, error) {
	ctx, cancel := context.WithTimeout(context.TODO(), time.Second)
	defer cancel()

	cur := r.dbClient.RunCollection.FindOne(ctx, bson.D{{Key: "run_id", Value: runID}})
	var record RunRecord
	if err := cur.Decode(&record); err != nil {
		return RunRecord{}, err
	}
	return record, nil
}

func (r *runRepository) GetLastRunForModel(modelName string) (RunRecord, error) {
	ctx, cancel := context.WithTimeout(context.TODO(), time.Second)
	defer cancel()

	opts := options.FindOne()
	opts.SetSort(bson.D{{Key: "summary.timestamp", Value: -1}})

	cur := r.dbClient.RunCollection.FindOne(ctx, bson.D{{Key: "summary.model_name", Value: modelName}}, opts)
	var record RunRecord
	if err := cur.Decode(&record); err != nil {
		return RunRecord{}, err
	}
	return record, nil
}

func (r *runRepository) GetRunsBetweenDates(startTime primitive.DateTime, endTime primitive.DateTime) ([]RunRecord, error) {
	ctx, cancel := context.WithTimeout(context.TODO(), time.Second)
	defer cancel()

	filter := bson.D{
		{
			Key: "summary.timestamp", Value: bson.D{
				{Key: "$gte", Value: startTime},
				{Key: "$lte", Value: endTime},
			},
		},
	}

	cur, err := r.dbClient.RunCollection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}

	var records []RunRecord
	if err = cur.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *runRepository) GetRandomResultForType(ruleType string) (ResultRecord, error) {
	ctx, cancel := context.WithTimeout(context.TODO(), time.Second)
	defer cancel()

	matchStage := bson.D{{Key: "$match", Value: bson.D{{Key: "rule_type", Value: ruleType}}}}
	sampleStage := bson.D{{Key: "$sample", Value: bson.D{{Key: "size", Value: 1}}}}

	cursor, err := r.dbClient.ResultCollection.Aggregate(ctx, mongo.Pipeline{matchStage, sampleStage})
	if err != nil {
		return ResultRecord{}, err
	}

	var loaded []ResultRecord
	if err = cursor.All(ctx, &loaded); err != nil {
		return ResultRecord{}, err
	}
	if len(loaded) != 1 {
		return ResultRecord{}, fmt.Errorf("aggregate with $size = 1 returned more than 1 samples or no samples")
	}
	return loaded[0], nil
}
