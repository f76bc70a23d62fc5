package submission

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// writeReceipt stores r as protobuf JSON.
func writeReceipt(path string, r *Receipt) error {
	files := make([]any, 0, len(r.Files))
	for _, f := range r.Files {
		files = append(files, map[string]any{
			"path":   f.Path,
			"size":   f.Size,
			"sha256": f.SHA256,
		})
	}

	msg, err := structpb.NewStruct(map[string]any{
		"id":         r.ID,
		"course":     r.Course,
		"assignment": r.Assignment,
		"created_at": r.CreatedAt.Format(time.RFC3339Nano),
		"archive":    filepath.Base(r.Archive),
		"files":      files,
	})
	if err != nil {
		return fmt.Errorf("build receipt: %w", err)
	}

	data, err := protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode receipt: %w", err)
	}

	if err = os.WriteFile(path, data, outboxFilePermissions); err != nil {
		return fmt.Errorf("write receipt: %w", err)
	}

	return nil
}

// ReadReceipt loads a receipt written by the outbox sink.
// The archive path is resolved against the receipt directory.
func ReadReceipt(path string) (*Receipt, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read receipt: %w", err)
	}

	var msg structpb.Struct
	if err = protojson.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("decode receipt: %w", err)
	}

	fields := msg.GetFields()

	r := &Receipt{
		ID:         fields["id"].GetStringValue(),
		Course:     fields["course"].GetStringValue(),
		Assignment: fields["assignment"].GetStringValue(),
		Archive:    filepath.Join(filepath.Dir(path), fields["archive"].GetStringValue()),
	}

	if r.CreatedAt, err = time.Parse(time.RFC3339Nano, fields["created_at"].GetStringValue()); err != nil {
		return nil, fmt.Errorf("decode receipt time: %w", err)
	}

	for _, v := range fields["files"].GetListValue().GetValues() {
		f := v.GetStructValue().GetFields()
		r.Files = append(r.Files, FileInfo{
			Path:   f["path"].GetStringValue(),
			Size:   int64(f["size"].GetNumberValue()),
			SHA256: f["sha256"].GetStringValue(),
		})
	}

	return r, nil
}
