package main

import (
	"reflect"

	"go.uber.org/zap"

	"github.com/orbworks/orrery"
	"github.com/orbworks/orrery/hdf5"
)

// record runs the simulation headless and saves every step to an HDF5 file.
func record(conf *Config, w *orrery.World, log *zap.Logger) error {
	return hdf5.Run(w, &hdf5.Config{
		Output: conf.Output,
		Steps:  conf.Steps,
		Step:   func() { logMerges(log, w.Tick()) },
		Datasets: []*hdf5.Dataset{
			hdf5.Bodies(conf.MaxBodies),
			hdf5.Count(),
		},
		Attrs: confAttrs(conf),
		Log:   log,
	})
}

// confAttrs reflects the whole configuration into attributes so a
// recording documents the parameters that produced it.
func confAttrs(conf *Config) map[string]interface{} {
	attrs := make(map[string]interface{})
	v := reflect.ValueOf(conf).Elem()
	for i := 0; i < v.NumField(); i++ {
		attrs[v.Type().Field(i).Name] = v.Field(i).Interface()
	}
	return attrs
}
