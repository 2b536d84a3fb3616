// Command reactorctl is a small demo harness for the reactor module: it wires Concat,
// Retry, ObserveOn and AsBlocking into one pipeline and prints what came out.
// Grounded on delaneyj-signalparty/cmd/codegen/main.go's urfave/cli/v3 Command+Action
// shape.
package main

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	reactor "github.com/faizol/reactor"
	"github.com/faizol/reactor/internal/telemetry"
	"github.com/faizol/reactor/schedulers"
)

func main() {
	cmd := &cli.Command{
		Name:  "reactorctl",
		Usage: "run a demo reactor pipeline",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "optional YAML/JSON config file"},
		},
		Action: run,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal().Err(err).Msg("reactorctl: run failed")
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	cfg := loadPipelineConfig(cmd.String("config"))
	telemetry.Init(cfg.LogLevel, cfg.HumanLog)

	log.Info().Interface("config", cfg).Msg("reactorctl: starting pipeline")

	var attempts atomic.Int64
	flaky := reactor.Create(func(o reactor.Observer[int]) {
		n := attempts.Add(1)
		if int(n) <= cfg.FailFirst {
			o.OnError(fmt.Errorf("reactorctl: simulated failure on attempt %d", n))
			return
		}
		o.OnNext(100)
		o.OnCompleted()
	})

	retried := reactor.Retry(flaky, cfg.Attempts)
	doubled := reactor.Map(retried, func(v int) int { return v * 2 })

	pipeline := reactor.Concat(reactor.Just(1, 2, 3), doubled)
	onPool := reactor.ObserveOn(pipeline, schedulers.ThreadPool(cfg.Workers))

	values, err := reactor.AsBlocking(onPool)
	if err != nil {
		log.Error().Err(err).Msg("reactorctl: pipeline ended in error")
		return err
	}

	fmt.Println(values)
	log.Info().Ints("values", values).Msg("reactorctl: pipeline completed")
	return nil
}
