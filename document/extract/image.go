package extract

import (
	"bytes"
	"context"
	"strings"
	"time"

	vision "cloud.google.com/go/vision/v2/apiv1"
	visionpb "cloud.google.com/go/vision/v2/apiv1/visionpb"
	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"golang.org/x/sync/semaphore"

	"github.com/hrygo/docbrief/document"
)

const (
	ocrTimeout = 60 * time.Second

	// Wider images are downscaled before the OCR call. Document text
	// detection does not benefit from more pixels past this point and the
	// request payload shrinks considerably.
	maxOCRWidth = 2048

	defaultOCRConcurrency = 4
)

// VisionOCR extracts text from raster images with Cloud Vision document
// text detection. In-flight OCR calls are capped by a weighted semaphore so
// a burst of image uploads cannot saturate the API quota.
type VisionOCR struct {
	client        *vision.ImageAnnotatorClient
	languageHints []string
	sem           *semaphore.Weighted
}

func NewVisionOCR(ctx context.Context, languageHints []string, maxConcurrent int64) (*VisionOCR, error) {
	if maxConcurrent <= 0 {
		maxConcurrent = defaultOCRConcurrency
	}
	client, err := vision.NewImageAnnotatorClient(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "create vision client")
	}
	return &VisionOCR{
		client:        client,
		languageHints: languageHints,
		sem:           semaphore.NewWeighted(maxConcurrent),
	}, nil
}

func (o *VisionOCR) Close() error {
	return o.client.Close()
}

func (o *VisionOCR) Extract(ctx context.Context, doc *document.UploadedDocument) (document.ExtractedText, error) {
	img, err := imaging.Open(doc.StoredPath)
	if err != nil {
		return document.ExtractedText{}, &ExtractionError{Stage: StageOCR, Err: errors.Wrap(err, "decode image")}
	}
	if img.Bounds().Dx() > maxOCRWidth {
		img = imaging.Resize(img, maxOCRWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return document.ExtractedText{}, &ExtractionError{Stage: StageOCR, Err: errors.Wrap(err, "encode image")}
	}

	if err := o.sem.Acquire(ctx, 1); err != nil {
		return document.ExtractedText{}, &ExtractionError{Stage: StageOCR, Err: errors.Wrap(err, "acquire ocr slot")}
	}
	defer o.sem.Release(1)

	ctx, cancel := context.WithTimeout(ctx, ocrTimeout)
	defer cancel()

	req := &visionpb.AnnotateImageRequest{
		Image: &visionpb.Image{Content: buf.Bytes()},
		Features: []*visionpb.Feature{
			{Type: visionpb.Feature_DOCUMENT_TEXT_DETECTION},
		},
	}
	if len(o.languageHints) > 0 {
		req.ImageContext = &visionpb.ImageContext{LanguageHints: o.languageHints}
	}

	resp, err := o.client.BatchAnnotateImages(ctx, &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{req},
	})
	if err != nil {
		return document.ExtractedText{}, &ExtractionError{Stage: StageOCR, Err: errors.Wrap(err, "batch annotate")}
	}
	if resp == nil || len(resp.Responses) == 0 || resp.Responses[0] == nil {
		return document.ExtractedText{Source: doc}, nil
	}

	r0 := resp.Responses[0]
	if r0.Error != nil && r0.Error.Message != "" {
		return document.ExtractedText{}, &ExtractionError{Stage: StageOCR, Err: errors.Errorf("annotate: %s", r0.Error.Message)}
	}

	var text string
	if r0.FullTextAnnotation != nil {
		text = r0.FullTextAnnotation.Text
	}
	return document.ExtractedText{Raw: strings.TrimSpace(text), Source: doc}, nil
}
