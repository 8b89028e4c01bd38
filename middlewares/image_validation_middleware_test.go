package middlewares

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"nwitter_api/types"

	"cloud.google.com/go/logging"
	"google.golang.org/api/option"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// testLogger builds a Cloud Logging logger that is never flushed, so no
// network traffic happens during the test.
func testLogger(t *testing.T) *logging.Logger {
	t.Helper()
	client, err := logging.NewClient(context.Background(), "test-project",
		option.WithoutAuthentication(),
		option.WithGRPCDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())))
	if err != nil {
		t.Fatalf("creating test logging client: %v", err)
	}
	return client.Logger("test")
}

func multipartRequest(t *testing.T, fields map[string]string, files map[string][]byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			t.Fatal(err)
		}
	}
	for name, data := range files {
		fw, err := writer.CreateFormFile(types.TWEET_IMAGE_FORM_FIELD, name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := fw.Write(data); err != nil {
			t.Fatal(err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/tweets", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 1, 1))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestImageValidationPassesThroughWithoutFile(t *testing.T) {
	c, w := testContext(t, multipartRequest(t, map[string]string{"tweet": "hi"}, nil))

	ImageValidationMiddleware(testLogger(t))(c)

	if c.IsAborted() {
		t.Fatalf("request aborted, status %d", w.Code)
	}
	if _, exists := c.Get(types.CONTEXT_TWEET_IMAGE); exists {
		t.Error("attachment set although no file was sent")
	}
}

func TestImageValidationAcceptsPng(t *testing.T) {
	c, w := testContext(t, multipartRequest(t, nil, map[string][]byte{"a.png": pngBytes(t)}))

	ImageValidationMiddleware(testLogger(t))(c)

	if c.IsAborted() {
		t.Fatalf("valid image rejected, status %d", w.Code)
	}

	value, exists := c.Get(types.CONTEXT_TWEET_IMAGE)
	if !exists {
		t.Fatal("attachment missing from context")
	}
	img := value.(types.TweetImage)
	if img.ContentType != "image/png" {
		t.Errorf("ContentType = %q, want image/png", img.ContentType)
	}

	// The file must be rewound for the handler to read it in full.
	data := make([]byte, img.Size)
	if _, err := io.ReadFull(img.File, data); err != nil {
		t.Errorf("reading attachment after middleware: %v", err)
	}
}

func TestImageValidationRejectsOversizedFile(t *testing.T) {
	big := make([]byte, types.TWEET_IMAGE_MAX_BYTES+1)
	copy(big, pngBytes(t))
	c, w := testContext(t, multipartRequest(t, nil, map[string][]byte{"big.png": big}))

	ImageValidationMiddleware(testLogger(t))(c)

	if !c.IsAborted() || w.Code != http.StatusBadRequest {
		t.Errorf("oversized file not rejected, status %d", w.Code)
	}
}

func TestImageValidationRejectsNonImage(t *testing.T) {
	c, w := testContext(t, multipartRequest(t, nil, map[string][]byte{"notes.txt": []byte("plain text, definitely not pixels")}))

	ImageValidationMiddleware(testLogger(t))(c)

	if !c.IsAborted() || w.Code != http.StatusBadRequest {
		t.Errorf("non-image accepted, status %d", w.Code)
	}
}

func TestImageValidationUsesFirstOfSeveralFiles(t *testing.T) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for _, name := range []string{"first.png", "second.png"} {
		fw, err := writer.CreateFormFile(types.TWEET_IMAGE_FORM_FIELD, name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := fw.Write(pngBytes(t)); err != nil {
			t.Fatal(err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/tweets", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	c, w := testContext(t, req)

	ImageValidationMiddleware(testLogger(t))(c)

	if c.IsAborted() {
		t.Fatalf("request aborted, status %d", w.Code)
	}
	if _, exists := c.Get(types.CONTEXT_TWEET_IMAGE); !exists {
		t.Error("first file not kept")
	}
}
