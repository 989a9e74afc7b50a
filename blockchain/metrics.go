package blockchain

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	rejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ember",
		Name:      "checkpoint_rejections_total",
		Help:      "Blocks refused by the checkpoint rules, by rule (hardened or sync)",
	}, []string{"reason"})

	syncCheckpointHeight = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "ember",
		Name:      "sync_checkpoint_height",
		Help:      "Height of the current sync checkpoint",
	})

	totalBlocksEstimate = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "ember",
		Name:      "total_blocks_estimate",
		Help:      "Highest checkpointed height",
	})

	bestHeight = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "ember",
		Name:      "best_height",
		Help:      "Height of the best chain tip",
	})
)

func (bc *Blockchain) updateMetrics() {
	info := bc.GetInfo()

	bestHeight.Set(float64(info.Height))
	totalBlocksEstimate.Set(float64(info.TotalBlocksEstimate))
	syncCheckpointHeight.Set(float64(info.SyncCheckpoint.Height))
}
