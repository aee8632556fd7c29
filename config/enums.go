package config

// How images referenced by remote URL are obtained.
// ENUM(background, await, prefetch)
type RemotePolicy int

// Requested output type.
// ENUM(xml, tree)
type OutputFmt int

func (o OutputFmt) Ext() string {
	switch o {
	case OutputFmtXml:
		return ".xml"
	case OutputFmtTree:
		return ".txt"
	default:
		// this should never happen
		panic("unsupported format requested")
	}
}
