package metrics

import (
	"context"
	"sync/atomic"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"

	"cricketflow/logger"
)

type cloudWatchState struct {
	client    *cloudwatch.Client
	namespace string
}

var cwState atomic.Pointer[cloudWatchState]

// InitCloudWatch initialises the CloudWatch client using the provided region
// and namespace. When the client cannot be created the function logs a
// warning and leaves publishing disabled.
func InitCloudWatch(region, namespace string) {
	log := logger.GetLogger().WithComponent("cloudwatch")

	ctx := context.Background()
	opts := []func(*config.LoadOptions) error{}
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		log.WithError(err).Warn("failed to load AWS configuration; CloudWatch metrics disabled")
		return
	}

	if namespace == "" {
		namespace = "Cricketflow"
	}

	cwState.Store(&cloudWatchState{
		client:    cloudwatch.NewFromConfig(cfg),
		namespace: namespace,
	})

	log.WithFields(logger.Fields{"namespace": namespace, "region": region}).Info("cloudwatch metrics enabled")
}

func publishCounters(ctx context.Context, counts map[counterKey]int64) {
	state := cwState.Load()
	if state == nil || state.client == nil {
		return
	}

	log := logger.GetLogger().WithComponent("cloudwatch")

	data := make([]cwtypes.MetricDatum, 0, len(counts))
	for key, value := range counts {
		data = append(data, cwtypes.MetricDatum{
			MetricName: aws.String(key.name),
			Dimensions: []cwtypes.Dimension{
				{Name: aws.String("match_id"), Value: aws.String(key.matchID)},
			},
			Unit:  cwtypes.StandardUnitCount,
			Value: aws.Float64(float64(value)),
		})
	}

	// PutMetricData accepts at most 20 datums per call.
	for len(data) > 0 {
		batch := data
		if len(batch) > 20 {
			batch = data[:20]
		}
		data = data[len(batch):]

		_, err := state.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
			Namespace:  aws.String(state.namespace),
			MetricData: batch,
		})
		if err != nil {
			log.WithError(err).Warn("failed to publish metrics")
			return
		}
	}
}
