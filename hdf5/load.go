package hdf5

import (
	"fmt"

	"github.com/orbworks/orrery"
	"gonum.org/v1/hdf5"
)

// A Loader sequentially reads the frames of a recording.
type Loader struct {
	i      uint  // index of the current step
	steps  uint  // total number of steps
	max    uint  // rows per step
	counts []int // live bodies per step

	rows []Record // read buffer

	file   *hdf5.File
	dset   *hdf5.Dataset
	fspace *hdf5.Dataspace
	mspace *hdf5.Dataspace
}

// NewLoader opens a recording and returns an initialized loader. It
// rejects recordings whose shape and per-step counts do not agree.
func NewLoader(path string) (*Loader, error) {
	l := new(Loader)
	var err error
	l.file, err = hdf5.OpenFile(path, hdf5.F_ACC_RDONLY)
	if err != nil {
		return nil, err
	}

	// The count dataset is small; read it whole up front.
	if err := l.readCounts(); err != nil {
		checkClose(&err, l.file)
		return nil, err
	}

	l.dset, err = l.file.OpenDataset("bodies")
	if err != nil {
		checkClose(&err, l.file)
		return nil, err
	}
	l.fspace = l.dset.Space()
	dims, _, err := l.fspace.SimpleExtentDims()
	if err != nil {
		checkClose(&err, l.fspace)
		checkClose(&err, l.dset)
		checkClose(&err, l.file)
		return nil, err
	}
	if len(dims) != 2 {
		err := fmt.Errorf("loader: expected 2 dimensions, got %d", len(dims))
		checkClose(&err, l.fspace)
		checkClose(&err, l.dset)
		checkClose(&err, l.file)
		return nil, err
	}
	l.steps, l.max = dims[0], dims[1]
	if uint(len(l.counts)) != l.steps {
		err := fmt.Errorf("loader: %d counts for %d steps", len(l.counts), l.steps)
		checkClose(&err, l.fspace)
		checkClose(&err, l.dset)
		checkClose(&err, l.file)
		return nil, err
	}
	if err := checkCounts(l.counts, int(l.max)); err != nil {
		checkClose(&err, l.fspace)
		checkClose(&err, l.dset)
		checkClose(&err, l.file)
		return nil, err
	}

	l.mspace, err = hdf5.CreateSimpleDataspace(dims[1:], nil)
	if err != nil {
		checkClose(&err, l.fspace)
		checkClose(&err, l.dset)
		checkClose(&err, l.file)
		return nil, err
	}

	start := []uint{0, 0}
	count := []uint{1, dims[1]}
	if err := l.fspace.SelectHyperslab(start, nil, count, nil); err != nil {
		checkClose(&err, l.mspace)
		checkClose(&err, l.fspace)
		checkClose(&err, l.dset)
		checkClose(&err, l.file)
		return nil, err
	}

	l.rows = make([]Record, dims[1])

	return l, nil
}

// readCounts loads the per-step body counts.
func (l *Loader) readCounts() (err error) {
	dset, err := l.file.OpenDataset("count")
	if err != nil {
		return err
	}
	defer checkClose(&err, dset)

	space := dset.Space()
	defer checkClose(&err, space)
	dims, _, err := space.SimpleExtentDims()
	if err != nil {
		return err
	}
	if len(dims) != 1 {
		return fmt.Errorf("loader: expected 1 dimension for counts, got %d", len(dims))
	}

	l.counts = make([]int, dims[0])
	return dset.Read(&l.counts)
}

// checkCounts rejects per-step counts that a recording with max rows
// per step cannot have produced.
func checkCounts(counts []int, max int) error {
	for k, n := range counts {
		if n < 0 || n > max {
			return fmt.Errorf("loader: step %d count %d out of range [0, %d]", k, n, max)
		}
	}
	return nil
}

// Steps returns the number of recorded steps.
func (l *Loader) Steps() int { return int(l.steps) }

// MaxBodies returns the per-step row capacity of the recording.
func (l *Loader) MaxBodies() int { return int(l.max) }

// Next reads the next recorded step and cycles back to the first step
// at the end of the recording.
func (l *Loader) Next() ([]orrery.View, error) {
	if err := l.fspace.SetOffset([]uint{l.i, 0}); err != nil {
		return nil, err
	}
	k := l.i
	l.i = (l.i + 1) % l.steps

	if err := l.dset.ReadSubset(&l.rows, l.mspace, l.fspace); err != nil {
		return nil, err
	}

	// Counts were checked against the row capacity when the recording
	// was opened.
	n := l.counts[k]
	views := make([]orrery.View, n)
	for i := range l.rows[:n] {
		views[i] = l.rows[i].View()
	}
	return views, nil
}

// Close releases the loader's HDF5 handles.
func (l *Loader) Close() (err error) {
	checkClose(&err, l.mspace)
	checkClose(&err, l.fspace)
	checkClose(&err, l.dset)
	checkClose(&err, l.file)
	return err
}
