// SPDX-License-Identifier: MIT
package main

import (
	"fmt"

	"auragraph/internal/config"
	"auragraph/internal/graph"
	"auragraph/internal/nodes"
)

// buildDemoGraph wires a small sine -> panner -> attenuator chain
// producing cfg.Engine.OutputChannels of output, the same role the
// teacher's capture-engine filled as the thing `bounce` and `play`
// actually render when no richer graph has been configured.
func buildDemoGraph(cfg *config.Config) (*graph.Node, error) {
	sr, blockSize := cfg.Engine.SampleRate, cfg.Engine.BlockSize

	sine := nodes.NewSine(sr, blockSize)
	if err := sine.Property("frequency").SetDoubleValue(440.0); err != nil {
		return nil, err
	}

	switch cfg.Engine.OutputChannels {
	case 1:
		attenuator := nodes.NewAttenuator(1, blockSize)
		if err := attenuator.Property("gain").SetDoubleValue(0.3); err != nil {
			return nil, err
		}
		if _, err := graph.Connect(sine, attenuator, true); err != nil {
			return nil, err
		}
		return attenuator, nil
	case 2:
		panner := nodes.NewPanner(blockSize)
		if _, err := graph.Connect(sine, panner, true); err != nil {
			return nil, err
		}
		attenuator := nodes.NewAttenuator(2, blockSize)
		if err := attenuator.Property("gain").SetDoubleValue(0.3); err != nil {
			return nil, err
		}
		if _, err := graph.Connect(panner, attenuator, true); err != nil {
			return nil, err
		}
		return attenuator, nil
	default:
		return nil, fmt.Errorf("auragraph: no demo graph for %d output channels", cfg.Engine.OutputChannels)
	}
}
