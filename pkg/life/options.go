package life

type options struct {
	width, height       int
	hasWidth, hasHeight bool
	backend             Backend
}

// Option adjusts grid construction.
type Option func(*options)

// WithWidth fixes the grid width. Constructors that derive a width from their
// input pad up to it and fail if the input needs more room.
func WithWidth(w int) Option {
	return func(o *options) { o.width, o.hasWidth = w, true }
}

// WithHeight fixes the grid height, like WithWidth.
func WithHeight(h int) Option {
	return func(o *options) { o.height, o.hasHeight = h, true }
}

// WithSize fixes both dimensions.
func WithSize(w, h int) Option {
	return func(o *options) {
		WithWidth(w)(o)
		WithHeight(h)(o)
	}
}

// WithBackend selects the cell storage. The default is BackendDense.
func WithBackend(b Backend) Option {
	return func(o *options) { o.backend = b }
}

func buildOptions(opts []Option) options {
	o := options{backend: BackendDense}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if _, ok := backends[o.backend]; !ok {
		o.backend = BackendDense
	}
	return o
}

// resolve combines the extent derived from the input with any explicit size.
func (o options) resolve(derivedW, derivedH int) (int, int, error) {
	w, h := derivedW, derivedH
	if o.hasWidth {
		if o.width < derivedW {
			return 0, 0, &DimensionError{Width: o.width, Height: h, Reason: "width is smaller than the cells require"}
		}
		w = o.width
	}
	if o.hasHeight {
		if o.height < derivedH {
			return 0, 0, &DimensionError{Width: w, Height: o.height, Reason: "height is smaller than the cells require"}
		}
		h = o.height
	}
	if w <= 0 || h <= 0 {
		return 0, 0, &DimensionError{Width: w, Height: h, Reason: "width and height must be positive"}
	}
	return w, h, nil
}
