package encode

type EncodeOption func(*EncState)

func EncodeFormat(f Format) EncodeOption {
	return func(es *EncState) { es.format = f }
}

// EncodeCompact drops all optional whitespace. It only affects JSON.
func EncodeCompact(v bool) EncodeOption {
	return func(es *EncState) { es.compact = v }
}

func EncodeIndent(n int) EncodeOption {
	return func(es *EncState) { es.indent = n }
}

func EncodeColors(c *Colors) EncodeOption {
	return func(es *EncState) { es.colors = c }
}

// FormatFromOpts extracts the format from encode options.
func FormatFromOpts(opts ...EncodeOption) Format {
	es := &EncState{}
	for _, opt := range opts {
		opt(es)
	}
	return es.format
}
