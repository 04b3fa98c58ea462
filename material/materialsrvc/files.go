package materialsrvc

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"path"
	"regexp"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
	"github.com/nfnt/resize"
)

const (
	ThumbnailMaxWidth = 640
	MaxUploadBytes    = 20 << 20

	thumbnailQuality = 85
)

var thumbnailTypes = []string{"image/jpeg", "image/png", "image/gif"}

// makeThumbnail decodes an uploaded image, shrinks it to ThumbnailMaxWidth
// keeping the aspect ratio and re-encodes it as JPEG.
func makeThumbnail(content []byte) ([]byte, error) {
	mtype := mimetype.Detect(content)
	if !mimetype.EqualsAny(mtype.String(), thumbnailTypes...) {
		return nil, fmt.Errorf("thumbnail of type %s is not an image", mtype.String())
	}
	img, _, err := image.Decode(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("decode thumbnail: %w", err)
	}
	if img.Bounds().Dx() > ThumbnailMaxWidth {
		img = resize.Resize(ThumbnailMaxWidth, 0, img, resize.Lanczos3)
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: thumbnailQuality}); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}

type notesFile struct {
	mediaType string
	fileType  string
	fileSize  string
}

// inspectNotes sniffs the uploaded file. The file type is the upper case
// extension, e.g. PDF.
func inspectNotes(name string, content []byte) notesFile {
	mtype := mimetype.Detect(content)
	ext := strings.TrimPrefix(mtype.Extension(), ".")
	if ext == "" {
		ext = strings.TrimPrefix(path.Ext(name), ".")
	}
	return notesFile{
		mediaType: mtype.String(),
		fileType:  strings.ToUpper(ext),
		fileSize:  humanize.Bytes(uint64(len(content))),
	}
}

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

func safeFileName(name string) string {
	name = unsafeNameChars.ReplaceAllString(path.Base(name), "_")
	name = strings.Trim(name, "._")
	if name == "" {
		return "file"
	}
	return name
}

func thumbnailKey(materialID string) string {
	return "thumbnails/" + materialID + ".jpg"
}

func notesKey(materialID, fileName string) string {
	return "notes/" + materialID + "/" + safeFileName(fileName)
}
