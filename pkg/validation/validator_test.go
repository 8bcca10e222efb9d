package validation

import (
	"strings"
	"testing"
)

type sinkRequest struct {
	Level  string   `validate:"loglevel"`
	Bucket string   `validate:"omitempty,s3bucket"`
	Table  string   `validate:"sqlident"`
	Format string   `validate:"oneof=json yaml"`
	Limit  int      `validate:"min=1,max=10"`
	Tags   []string `validate:"min=1"`
}

func TestStruct(t *testing.T) {
	valid := sinkRequest{Level: "debug", Bucket: "graph-results", Table: "public.node_annotations", Format: "json", Limit: 3, Tags: []string{"a"}}

	tests := []struct {
		name      string
		mutate    func(r *sinkRequest)
		wantField string
	}{
		{"valid", func(r *sinkRequest) {}, ""},
		{"unknown level", func(r *sinkRequest) { r.Level = "loud" }, "sinkRequest.Level"},
		{"bad bucket", func(r *sinkRequest) { r.Bucket = "Bad_Bucket" }, "sinkRequest.Bucket"},
		{"empty bucket allowed", func(r *sinkRequest) { r.Bucket = "" }, ""},
		{"sql injection table", func(r *sinkRequest) { r.Table = "x; drop table y" }, "sinkRequest.Table"},
		{"bad format", func(r *sinkRequest) { r.Format = "xml" }, "sinkRequest.Format"},
		{"limit too large", func(r *sinkRequest) { r.Limit = 11 }, "sinkRequest.Limit"},
		{"no tags", func(r *sinkRequest) { r.Tags = nil }, "sinkRequest.Tags"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)

			err := Struct(&req)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Expected no error, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Expected error mentioning %s", tt.wantField)
			}
			if !strings.Contains(err.Error(), tt.wantField) {
				t.Errorf("Error %q should mention %s", err.Error(), tt.wantField)
			}
		})
	}
}

func TestStruct_ReportsEveryField(t *testing.T) {
	err := Struct(&sinkRequest{Level: "loud", Table: "1bad", Format: "xml"})
	if err == nil {
		t.Fatal("Expected validation errors")
	}
	for _, field := range []string{"Level", "Table", "Format", "Limit", "Tags"} {
		if !strings.Contains(err.Error(), "sinkRequest."+field) {
			t.Errorf("Expected %s in %q", field, err.Error())
		}
	}
}

func TestValidateBucketAndIdentifier(t *testing.T) {
	if err := ValidateBucket("netstat-reports"); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
	if err := ValidateBucket("x"); err == nil {
		t.Error("Expected error for one-letter bucket")
	}
	if err := ValidateIdentifier("node_annotations"); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
	if err := ValidateIdentifier("node-annotations"); err == nil {
		t.Error("Expected error for hyphenated identifier")
	}
}

func TestStruct_Nil(t *testing.T) {
	if err := Struct(nil); err == nil {
		t.Error("Expected error for nil value")
	}
}
