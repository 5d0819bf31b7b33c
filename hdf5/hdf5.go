// Package hdf5 records simulation runs to HDF5 files and reads them
// back for replay.
package hdf5

import (
	"io"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/orbworks/orrery"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/hdf5"
)

// A Source yields the simulation state recorded at each step.
type Source interface {
	Snapshot() []orrery.View
}

// A Dataset stipulates how to generate data and where to store them in
// the HDF5 file.
type Dataset struct {
	// Name is the name of the dataset in the HDF5 file.
	Name string

	// Val is a value of the same concrete type as the underlying type
	// of the data.
	Val interface{}

	// Dims are the dimensions of the data for a single step.
	Dims []int

	// Data produces one step of data as a row-major value.
	Data func(views []orrery.View) interface{}

	dset   *hdf5.Dataset
	fspace *hdf5.Dataspace
	mspace *hdf5.Dataspace
}

// Config holds the parameters of the HDF5 recorder.
type Config struct {
	Output   string     // path of the output file
	Steps    int        // total number of steps
	Step     func()     // advance the simulation by one step
	Datasets []*Dataset // what to record

	// Attrs are written as attributes of the config dataset, next to
	// the recording time and run id. Values must be Go scalars or
	// strings.
	Attrs map[string]interface{}

	// Log reports recording progress. Nil disables logging.
	Log *zap.Logger
}

// A Record is what is recorded for one body at one step. It is mapped
// to an HDF5 compound datatype, so member names are part of the file
// format.
type Record struct {
	ID     uint64
	Pos    r2.Vec
	Vel    r2.Vec
	Radius float64
	Mass   float64
	Static uint8 // 1 if the body is static
	Color  [4]float32
}

// View converts a record back into a body view.
func (r *Record) View() orrery.View {
	return orrery.View{
		ID:     orrery.ID(r.ID),
		Pos:    r.Pos,
		Vel:    r.Vel,
		Radius: r.Radius,
		Mass:   r.Mass,
		Static: r.Static != 0,
		Color:  r.Color,
	}
}

// Records converts a snapshot into max rows, zero-padded past the live
// bodies. A zero mass marks a pad row: live bodies always have
// positive mass.
func Records(views []orrery.View, max int) []Record {
	rows := make([]Record, max)
	for i, v := range views {
		if i >= max {
			break
		}
		rows[i] = Record{
			ID:     uint64(v.ID),
			Pos:    v.Pos,
			Vel:    v.Vel,
			Radius: v.Radius,
			Mass:   v.Mass,
			Color:  v.Color,
		}
		if v.Static {
			rows[i].Static = 1
		}
	}
	return rows
}

// Bodies returns the dataset recording every body's state per step,
// padded to max rows. Bodies beyond max are dropped.
func Bodies(max int) *Dataset {
	return &Dataset{
		Name: "bodies",
		Val:  Record{},
		Dims: []int{max},
		Data: func(views []orrery.View) interface{} {
			return Records(views, max)
		},
	}
}

// Count returns the dataset recording the number of live bodies per step.
func Count() *Dataset {
	return &Dataset{
		Name: "count",
		Val:  0,
		Data: func(views []orrery.View) interface{} {
			n := len(views)
			return &n
		},
	}
}

// Run records a simulation to an HDF5 file, stepping it conf.Steps
// times and writing every dataset once per step.
func Run(src Source, conf *Config) (err error) {
	log := conf.Log
	if log == nil {
		log = zap.NewNop()
	}

	if err := os.MkdirAll(filepath.Dir(conf.Output), 0755); err != nil {
		return err
	}

	file, err := hdf5.CreateFile(conf.Output, hdf5.F_ACC_TRUNC)
	if err != nil {
		return err
	}
	defer checkClose(&err, file)

	if err := saveConfig(file, conf); err != nil {
		return err
	}

	for _, d := range conf.Datasets {
		if err := d.init(file, conf); err != nil {
			return err
		}
		defer checkClose(&err, d)
	}

	log.Info("recording", zap.String("output", conf.Output), zap.Int("steps", conf.Steps))
	for k := 0; k < conf.Steps; k++ {
		if conf.Steps >= 10 && k%(conf.Steps/10) == 0 {
			log.Info("recording progress", zap.Int("step", k), zap.Int("percent", 100*k/conf.Steps))
		}

		views := src.Snapshot()
		for _, d := range conf.Datasets {
			start := make([]uint, len(d.Dims)+1)
			start[0] = uint(k)
			if err := d.fspace.SetOffset(start); err != nil {
				return err
			}
			if err := d.dset.WriteSubset(d.Data(views), d.mspace, d.fspace); err != nil {
				return err
			}
		}

		conf.Step()
	}
	log.Info("recording done", zap.String("output", conf.Output))
	return nil
}

// saveConfig creates a "config" dataset with a null dataspace whose
// attributes carry the recording time, a fresh run id, and every entry
// of conf.Attrs.
func saveConfig(file *hdf5.File, conf *Config) (err error) {
	null, err := hdf5.CreateDataspace(hdf5.S_NULL)
	if err != nil {
		return err
	}
	defer checkClose(&err, null)

	anytype, err := hdf5.NewDatatypeFromValue(0)
	if err != nil {
		return err
	}
	defer checkClose(&err, anytype)

	dset, err := file.CreateDataset("config", anytype, null)
	if err != nil {
		return err
	}
	defer checkClose(&err, dset)

	scalar, err := hdf5.CreateDataspace(hdf5.S_SCALAR)
	if err != nil {
		return err
	}
	defer checkClose(&err, scalar)

	attrs := map[string]interface{}{
		"Time": time.Now().Format(time.RFC3339),
		"Run":  uuid.NewString(),
	}
	for k, v := range conf.Attrs {
		attrs[k] = v
	}
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if err := writeAttr(dset, scalar, k, attrs[k]); err != nil {
			return err
		}
	}
	return nil
}

// writeAttr writes one scalar attribute of a dataset.
func writeAttr(dset *hdf5.Dataset, scalar *hdf5.Dataspace, name string, val interface{}) (err error) {
	dtype, err := hdf5.NewDatatypeFromValue(val)
	if err != nil {
		return err
	}
	defer checkClose(&err, dtype)

	attr, err := dset.CreateAttribute(name, dtype, scalar)
	if err != nil {
		return err
	}
	defer checkClose(&err, attr)

	// Attribute writes need an addressable value.
	p := reflect.New(reflect.TypeOf(val))
	p.Elem().Set(reflect.ValueOf(val))
	return attr.Write(p.Interface(), dtype)
}

// init creates the dataset in file, sized for one slab per step.
func (d *Dataset) init(file *hdf5.File, conf *Config) (err error) {
	dtype, err := hdf5.NewDatatypeFromValue(d.Val)
	if err != nil {
		return err
	}
	defer checkClose(&err, dtype)

	udims := make([]uint, len(d.Dims)+1)
	udims[0] = uint(conf.Steps)
	for i, n := range d.Dims {
		udims[i+1] = uint(n)
	}

	d.fspace, err = hdf5.CreateSimpleDataspace(udims, nil)
	if err != nil {
		return err
	}

	start := make([]uint, len(udims))
	count := make([]uint, len(udims))
	copy(count, udims)
	count[0] = 1

	if err := d.fspace.SelectHyperslab(start, nil, count, nil); err != nil {
		checkClose(&err, d.fspace)
		return err
	}

	if len(d.Dims) == 0 {
		d.mspace, err = hdf5.CreateDataspace(hdf5.S_SCALAR)
	} else {
		d.mspace, err = hdf5.CreateSimpleDataspace(udims[1:], nil)
	}
	if err != nil {
		checkClose(&err, d.fspace)
		return err
	}

	d.dset, err = file.CreateDataset(d.Name, dtype, d.fspace)
	if err != nil {
		checkClose(&err, d.fspace)
		checkClose(&err, d.mspace)
	}

	return err
}

// Close closes the HDF5 dataset and dataspaces.
func (d *Dataset) Close() error {
	if err := d.dset.Close(); err != nil {
		return err
	}
	if err := d.mspace.Close(); err != nil {
		return err
	}
	return d.fspace.Close()
}

// checkClose checks for errors in deferred calls.
func checkClose(err *error, c io.Closer) {
	if cerr := c.Close(); *err == nil {
		*err = cerr
	}
}
