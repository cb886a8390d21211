package main

import (
	"io"

	"github.com/urfave/cli/v2"

	"github.com/robotsim/nikopt/logging"
)

const (
	// Flags.
	flagChain       = "chain"
	flagLogLevel    = "log-level"
	flagEndpoint    = "endpoint"
	flagStart       = "start"
	flagPosition    = "position"
	flagOrientation = "orientation"
	flagOptions     = "options"
	flagPolicy      = "policy"
	flagParallel    = "parallel"
	flagTrace       = "trace"
	flagRegulate    = "regulate"
	flagConfig      = "config"
	flagDelta       = "delta"
	flagRotate      = "rotate"
	flagTrials      = "trials"
	flagSeed        = "seed"
)

// newApp returns the nik CLI with Writer set to out and ErrWriter set to errOut. Logs go to errOut.
func newApp(out, errOut io.Writer) *cli.App {
	var logger logging.Logger

	endpointFlag := &cli.StringSliceFlag{
		Name:    flagEndpoint,
		Aliases: []string{"e"},
		Usage:   "joint carrying a tool frame, repeatable; defaults to the last joint of the chain",
	}
	startFlag := &cli.Float64SliceFlag{
		Name:  flagStart,
		Usage: "comma separated starting configuration; defaults to the chain's home configuration",
	}
	optionsFlag := &cli.StringFlag{
		Name:  flagOptions,
		Usage: "solver options from JSON `FILE`",
	}
	policyFlag := &cli.StringFlag{
		Name:  flagPolicy,
		Usage: "local minimum policy: accept, randomrestart or end",
	}
	traceFlag := &cli.StringFlag{
		Name:  flagTrace,
		Usage: "render the iteration trace to PNG `FILE`",
	}
	regulateFlag := &cli.BoolFlag{
		Name:  flagRegulate,
		Usage: "wrap full revolution joints back into their limits before printing",
	}

	app := &cli.App{
		Name:            "nik",
		Usage:           "numerical inverse kinematics for serial chains",
		HideHelpCommand: true,
		Writer:          out,
		ErrWriter:       errOut,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     flagChain,
				Aliases:  []string{"c"},
				Required: true,
				Usage:    "load the kinematic chain from JSON `FILE`",
			},
			&cli.StringFlag{
				Name:  flagLogLevel,
				Value: "info",
				Usage: "debug, info, warn or error",
			},
		},
		Before: func(c *cli.Context) error {
			level, err := logging.LevelFromString(c.String(flagLogLevel))
			if err != nil {
				return err
			}
			logger = logging.NewBlankLogger("nik")
			logger.AddAppender(logging.NewWriterAppender(c.App.ErrWriter))
			logger.SetLevel(level)
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:      "solve",
				Usage:     "solve for a configuration reaching the target poses",
				UsageText: "nik --chain FILE solve --position x,y,z [--orientation ox,oy,oz,deg] [options]",
				Flags: []cli.Flag{
					endpointFlag,
					startFlag,
					&cli.Float64SliceFlag{
						Name:     flagPosition,
						Aliases:  []string{"p"},
						Required: true,
						Usage:    "target positions, three values per endpoint",
					},
					&cli.Float64SliceFlag{
						Name:  flagOrientation,
						Usage: "target axis angle orientations in degrees, four values per endpoint; defaults to the starting orientation",
					},
					optionsFlag,
					policyFlag,
					&cli.IntFlag{
						Name:  flagParallel,
						Value: 1,
						Usage: "number of solvers to run in parallel from different starting configurations",
					},
					traceFlag,
					regulateFlag,
				},
				Action: func(c *cli.Context) error {
					return solveAction(c, logger)
				},
			},
			{
				Name:  "relative",
				Usage: "move the endpoints relative to where they are at the starting configuration",
				Flags: []cli.Flag{
					endpointFlag,
					startFlag,
					&cli.Float64SliceFlag{
						Name:     flagDelta,
						Aliases:  []string{"d"},
						Required: true,
						Usage:    "position deltas, three values per endpoint",
					},
					&cli.Float64SliceFlag{
						Name:  flagRotate,
						Usage: "world frame axis angle rotations in degrees, four values per endpoint",
					},
					optionsFlag,
					policyFlag,
					traceFlag,
					regulateFlag,
				},
				Action: func(c *cli.Context) error {
					return relativeAction(c, logger)
				},
			},
			{
				Name:  "bench",
				Usage: "solve for randomly sampled reachable poses and summarize iteration counts",
				Flags: []cli.Flag{
					endpointFlag,
					startFlag,
					optionsFlag,
					policyFlag,
					&cli.IntFlag{
						Name:  flagTrials,
						Value: 100,
						Usage: "number of random targets to solve",
					},
					&cli.Int64Flag{
						Name:  flagSeed,
						Value: 1,
						Usage: "seed for sampling targets",
					},
				},
				Action: func(c *cli.Context) error {
					return benchAction(c, logger)
				},
			},
			{
				Name:  "jacobian",
				Usage: "print the Jacobian of the endpoints at a configuration",
				Flags: []cli.Flag{
					endpointFlag,
					&cli.Float64SliceFlag{
						Name:  flagConfig,
						Usage: "comma separated configuration; defaults to the chain's home configuration",
					},
				},
				Action: jacobianAction,
			},
			{
				Name:  "manipulability",
				Usage: "print the manipulability index and translational ellipsoid at a configuration",
				Flags: []cli.Flag{
					endpointFlag,
					&cli.Float64SliceFlag{
						Name:  flagConfig,
						Usage: "comma separated configuration; defaults to the chain's home configuration",
					},
				},
				Action: manipulabilityAction,
			},
		},
	}
	return app
}
