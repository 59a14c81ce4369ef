package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"tucker3d/pkg/config"
	"tucker3d/pkg/tensor"
	"tucker3d/pkg/tucker"
	"tucker3d/pkg/volume"
)

func main() {
	// Parse command line arguments
	configPath := flag.String("config", "tucker3d.yaml", "Path to YAML configuration file")
	writeConfig := flag.Bool("write-config", false, "Write the default configuration file and exit")
	input := flag.String("input", "", "Raw float64 volume to decompose (overrides config)")
	dims := flag.String("dims", "", "Volume extents as I1xI2xI3 (overrides config)")
	ranks := flag.String("ranks", "", "Core ranks as J1xJ2xJ3 (overrides config)")
	method := flag.String("method", "", "Basis method: svd or eigen (overrides config)")
	workers := flag.Int("workers", 0, "Number of worker goroutines (overrides config)")
	output := flag.String("output", "", "Path for the reconstructed volume (overrides config)")
	flag.Parse()

	if *writeConfig {
		if err := config.CreateDefaultConfigFile(*configPath); err != nil {
			log.Fatalf("Failed to write default config: %v", err)
		}
		fmt.Printf("Default configuration written to %s\n", *configPath)
		return
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := applyOverrides(cfg, *input, *dims, *ranks, *method, *workers, *output); err != nil {
		log.Fatalf("Invalid flag: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	fmt.Println("================================")
	fmt.Println("TUCKER3 TENSOR DECOMPOSITION")
	fmt.Println("HOSVD compression of dense 3D volumes")
	fmt.Println("================================")

	d := cfg.Volume.Dims
	j := cfg.Decomposition.Ranks

	// Step 1: Load or synthesize the input volume
	fmt.Println("Step 1: Preparing input volume...")
	vol, err := loadVolume(cfg)
	if err != nil {
		log.Fatalf("Failed to prepare input volume: %v", err)
	}
	fmt.Printf("Volume extents: %dx%dx%d (%d voxels)\n", d[0], d[1], d[2], vol.Len())

	opts := &tucker.Options{Workers: cfg.Decomposition.Workers}
	if cfg.Decomposition.Method == "eigen" {
		opts.Solver = tucker.EigenSolver{}
	}

	// Step 2: Decompose
	fmt.Printf("Step 2: Decomposing to core ranks %dx%dx%d (%s bases, %d workers)...\n",
		j[0], j[1], j[2], cfg.Decomposition.Method, cfg.Decomposition.Workers)
	dec := tucker.New(j, d)
	startTime := time.Now()
	if err := dec.Decompose(context.Background(), vol, opts); err != nil {
		log.Fatalf("Decomposition failed: %v", err)
	}
	decomposeTime := time.Since(startTime)

	// Step 3: Reconstruct
	fmt.Println("Step 3: Reconstructing volume from the decomposition...")
	recon := tensor.New(d[0], d[1], d[2])
	startTime = time.Now()
	if err := dec.Reconstruct(context.Background(), recon, opts); err != nil {
		log.Fatalf("Reconstruction failed: %v", err)
	}
	reconstructTime := time.Since(startTime)

	// Step 4: Report quality and compression
	fmt.Println("Step 4: Computing reconstruction metrics...")
	metrics, err := volume.Compare(vol, recon)
	if err != nil {
		log.Fatalf("Metric computation failed: %v", err)
	}

	storedValues := j[0]*j[1]*j[2] + d[0]*j[0] + d[1]*j[1] + d[2]*j[2]
	ratio := float64(vol.Len()) / float64(storedValues)

	fmt.Printf("\nDecomposition completed in %.2f seconds, reconstruction in %.2f seconds\n",
		decomposeTime.Seconds(), reconstructTime.Seconds())
	fmt.Printf("\nCompression and quality:\n")
	fmt.Printf("========================\n")
	fmt.Printf("Stored values: %d of %d (%.1fx compression)\n", storedValues, vol.Len(), ratio)
	fmt.Printf("RMSE: %.6g\n", metrics.RMSE)
	fmt.Printf("PSNR: %.2f dB\n", metrics.PSNR)
	fmt.Printf("Max absolute error: %.6g\n", metrics.MaxAbs)
	fmt.Printf("Correlation: %.6f\n", metrics.Correlation)

	if cfg.Output.SaveReconstruction && cfg.Volume.Output != "" {
		if err := volume.Save(cfg.Volume.Output, recon); err != nil {
			log.Fatalf("Failed to save reconstruction: %v", err)
		}
		fmt.Printf("\nReconstructed volume saved to: %s\n", cfg.Volume.Output)
	}
}

// loadVolume reads the configured input file, or generates a synthetic
// demo volume when no input path is set.
func loadVolume(cfg *config.Config) (*tensor.Tensor3, error) {
	d := cfg.Volume.Dims
	if cfg.Volume.Input == "" {
		fmt.Println("No input volume configured, generating a synthetic rank-4 volume")
		return volume.Synthetic(d[0], d[1], d[2], 4, 1), nil
	}
	return volume.Load(cfg.Volume.Input, d[0], d[1], d[2])
}

// applyOverrides copies non-empty command line values over the loaded
// configuration.
func applyOverrides(cfg *config.Config, input, dims, ranks, method string, workers int, output string) error {
	if input != "" {
		cfg.Volume.Input = input
	}
	if dims != "" {
		v, err := parseTriple(dims)
		if err != nil {
			return fmt.Errorf("-dims: %w", err)
		}
		cfg.Volume.Dims = v
	}
	if ranks != "" {
		v, err := parseTriple(ranks)
		if err != nil {
			return fmt.Errorf("-ranks: %w", err)
		}
		cfg.Decomposition.Ranks = v
	}
	if method != "" {
		cfg.Decomposition.Method = method
	}
	if workers > 0 {
		cfg.Decomposition.Workers = workers
	}
	if output != "" {
		cfg.Volume.Output = output
		cfg.Output.SaveReconstruction = true
	}
	return nil
}

// parseTriple parses a dimension triple like "32x32x16".
func parseTriple(s string) ([3]int, error) {
	parts := strings.Split(strings.ToLower(s), "x")
	if len(parts) != 3 {
		return [3]int{}, fmt.Errorf("expected N1xN2xN3, got %q", s)
	}
	var v [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return [3]int{}, fmt.Errorf("bad dimension %q in %q", p, s)
		}
		v[i] = n
	}
	return v, nil
}
