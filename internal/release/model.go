package release

const (
	UnknownTag = "unknown"

	AcceptOctetStream = "application/octet-stream"
)

type Asset struct {
	Name string
	ID   int64
	Size int
}

// Descriptor is the part of a published release needed to install it.
type Descriptor struct {
	Tag    string
	Name   string
	Assets []Asset
}

// DownloadTarget is where the installable image is fetched from.
type DownloadTarget struct {
	URL    string
	Accept string
	// Asset is empty when the raw repository file is used
	Asset string
}

func (t DownloadTarget) IsFallback() bool {
	return t.Asset == ""
}
