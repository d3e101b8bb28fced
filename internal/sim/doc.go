// Package sim hosts the particle system.
//
// A [Host] plays the part of the device: it receives sensor samples,
// rotation and geometry changes, and is asked for one [Frame] per render
// tick. A [Simulator] drives a Host headlessly from a [sensor.Source] on a
// virtual clock, feeding [Metric] and [Observer] implementations.
//
// # Example
//
//	host, _ := sim.NewHost(sim.HostOptions{System: physics.DefaultOptions(), Geometry: g})
//	s := sim.New(host)
//	result, _ := s.Run(ctx, sensor.NewTilt(20, 0), sim.DefaultConfig())
package sim
