package label

// ReadOption configures how a file is read.
//
// Options that do not apply to the selected format are ignored:
//
//	set, err := label.Read("sample.esps", label.FormatESPS,
//	    label.WithSeparator("|"),
//	)
type ReadOption func(*readOptions)

type readOptions struct {
	path     string
	encoding string

	// esps
	separator    string
	hasSeparator bool

	table tableOptions
}

type tableOptions struct {
	sep       string
	fields    []string // set when the file has no header row
	t1Col     string
	t2Col     string
	skipLines int
	generated bool // synthesize t1 as t1Start + row*t1Step
	t1Start   float64
	t1Step    float64
}

func defaultReadOptions() *readOptions {
	return &readOptions{
		separator: defaultESPSSeparator,
		table: tableOptions{
			sep:    "\t",
			t1Col:  "t1",
			t2Col:  "t2",
			t1Step: 1,
		},
	}
}

func buildReadOptions(opts []ReadOption) *readOptions {
	o := defaultReadOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithEncoding decodes the input with the named encoding (IANA names such
// as "utf-8", "utf-16le", "iso-8859-1"). A byte-order mark in the file
// takes precedence and adds a Warning to the resulting Set.
func WithEncoding(name string) ReadOption {
	return func(o *readOptions) {
		o.encoding = name
	}
}

// WithSeparator sets the ESPS field separator, overriding any separator
// directive in the file header.
func WithSeparator(sep string) ReadOption {
	return func(o *readOptions) {
		o.separator = sep
		o.hasSeparator = true
	}
}

// WithTableSeparator sets the column delimiter for tabular input
// (default tab).
func WithTableSeparator(sep string) ReadOption {
	return func(o *readOptions) {
		o.table.sep = sep
	}
}

// WithFields names the columns of a table without a header row.
func WithFields(fields ...string) ReadOption {
	return func(o *readOptions) {
		o.table.fields = fields
	}
}

// WithT1Column names the column holding label start times (default "t1").
func WithT1Column(name string) ReadOption {
	return func(o *readOptions) {
		o.table.t1Col = name
		o.table.generated = false
	}
}

// WithT2Column names the column holding interval end times (default "t2").
// When the column is absent the table produces point tiers.
func WithT2Column(name string) ReadOption {
	return func(o *readOptions) {
		o.table.t2Col = name
	}
}

// WithSkipLines skips n lines before the header.
func WithSkipLines(n int) ReadOption {
	return func(o *readOptions) {
		o.table.skipLines = n
	}
}

// WithGeneratedTime synthesizes label times as start + row*step instead of
// reading them from a column.
func WithGeneratedTime(start, step float64) ReadOption {
	return func(o *readOptions) {
		o.table.generated = true
		o.table.t1Start = start
		o.table.t1Step = step
	}
}
