package cli

import (
	"math/rand"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	exprand "golang.org/x/exp/rand"

	"github.com/w121211/LayoutGAN/internal/config"
	"github.com/w121211/LayoutGAN/internal/dataset"
	"github.com/w121211/LayoutGAN/internal/gan"
	"github.com/w121211/LayoutGAN/internal/metrics"
	"github.com/w121211/LayoutGAN/internal/noise"
	"github.com/w121211/LayoutGAN/internal/opt"
	"github.com/w121211/LayoutGAN/internal/train"
)

func newTrainCmd() *cobra.Command {
	var (
		configPath string
		dataDir    string
		outDir     string
		epochs     int
		seed       int64
	)

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train the layout GAN on MNIST",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			cfg := train.DefaultConfig()
			if configPath != "" {
				loaded, err := config.Load(configPath)
				if err != nil {
					return err
				}
				cfg = loaded
			}
			if cmd.Flags().Changed("epochs") {
				cfg.NumEpochs = epochs
			}
			if cmd.Flags().Changed("seed") {
				cfg.Seed = seed
			}

			if err := os.MkdirAll(dataDir, 0755); err != nil {
				return err
			}
			dataPath := filepath.Join(dataDir, "train-images-idx3-ubyte.gz")
			if err := dataset.Download(dataset.DefaultMNISTURL, dataPath); err != nil {
				return err
			}
			ds, err := dataset.LoadMNIST(dataPath)
			if err != nil {
				return err
			}
			logger.Info("loaded dataset", "images", ds.Len())

			if err := os.MkdirAll(outDir, 0755); err != nil {
				return err
			}
			csvSink, err := metrics.NewCSV(filepath.Join(outDir, "losses.csv"))
			if err != nil {
				return err
			}
			scatterSink, err := metrics.NewScatterPNG(outDir, cfg.ClassNum)
			if err != nil {
				return err
			}
			sink := metrics.Multi{csvSink, scatterSink}
			defer sink.Close()
			logger.Info("writing artifacts", "dir", scatterSink.Dir())

			// Model initialization and noise sampling draw from sources
			// derived from the one configured seed.
			modelRNG := rand.New(rand.NewSource(cfg.Seed))
			sampler := noise.NewSampler(cfg.ClassNum, cfg.GeoNum, exprand.NewSource(uint64(cfg.Seed)))

			gen := gan.NewPointGenerator(modelRNG, cfg.FeatureSize(), cfg.HiddenSize,
				opt.NewAdam(cfg.LearningRate, cfg.Beta1, cfg.Beta2))
			disc := gan.NewPointDiscriminator(modelRNG, cfg.FeatureSize(), cfg.HiddenSize,
				opt.NewAdam(cfg.LearningRate, cfg.Beta1, cfg.Beta2))

			trainer := train.NewTrainer(cfg, gen, disc, sampler, logger)
			return trainer.Run(cmd.Context(), ds, sink)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to a TOML config file")
	cmd.Flags().StringVar(&dataDir, "data-dir", "data", "directory for the MNIST download")
	cmd.Flags().StringVar(&outDir, "out-dir", "output", "directory for losses and generated samples")
	cmd.Flags().IntVar(&epochs, "epochs", 1, "number of training epochs")
	cmd.Flags().Int64Var(&seed, "seed", 42, "random seed")

	return cmd
}
