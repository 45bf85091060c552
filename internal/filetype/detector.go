package filetype

import (
	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog/log"
)

// Detector validates upload buffers using magic bytes, never the filename.
type Detector struct{}

// New creates a new file type detector
func New() *Detector {
	return &Detector{}
}

// Detect returns the MIME type and canonical extension for data.
func (d *Detector) Detect(data []byte) (string, string) {
	mtype := mimetype.Detect(data)
	log.Debug().Str("mime", mtype.String()).Str("ext", mtype.Extension()).Int("size", len(data)).Msg("detected file type")
	return mtype.String(), mtype.Extension()
}

// IsPDF reports whether data carries a PDF signature. This gates the upload
// surface before the codec spends time on a full parse.
func (d *Detector) IsPDF(data []byte) bool {
	return mimetype.Detect(data).Is("application/pdf")
}
