package ipc

import (
	"path/filepath"
	"testing"

	"github.com/wardrobe-mods/wardrobe/internal/apperr"
	"github.com/wardrobe-mods/wardrobe/internal/progress"
)

func TestDecodeResponse_Success(t *testing.T) {
	resp, err := DecodeResponse([]byte(`{"ok":true,"value":{"id":"m1","name":"Alpha"}}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.OK {
		t.Error("expected ok envelope")
	}
	if len(resp.Value) == 0 {
		t.Error("expected raw value payload")
	}
	if resp.Error != nil {
		t.Errorf("unexpected error payload: %+v", resp.Error)
	}
}

func TestDecodeResponse_TypedFailure(t *testing.T) {
	resp, err := DecodeResponse([]byte(`{"ok":false,"error":{"code":"MOD_NOT_FOUND","message":"no such mod","context":{"modId":"m9"}}}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.OK {
		t.Error("expected failure envelope")
	}
	if resp.Error == nil {
		t.Fatal("missing error payload")
	}
	if resp.Error.Code != apperr.CodeModNotFound {
		t.Errorf("code = %s, want %s", resp.Error.Code, apperr.CodeModNotFound)
	}
	if resp.Error.Context["modId"] != "m9" {
		t.Errorf("context = %v", resp.Error.Context)
	}
}

func TestDecodeResponse_NormalizesUnknownCode(t *testing.T) {
	resp, err := DecodeResponse([]byte(`{"ok":false,"error":{"code":"FUTURE_CODE","message":"?"}}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Error.Code != apperr.CodeUnknown {
		t.Errorf("code = %s, want %s", resp.Error.Code, apperr.CodeUnknown)
	}
}

func TestDecodeResponse_Malformed(t *testing.T) {
	if _, err := DecodeResponse([]byte(`{nope`)); err == nil {
		t.Error("expected decode error")
	}
}

func TestDecodeEventFrame(t *testing.T) {
	frame, err := DecodeEventFrame([]byte(`{"event":"progress","kind":"install","operationId":"op-1","stage":"extract","fraction":0.42,"done":false}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if frame.Event != EventProgress {
		t.Errorf("event = %q", frame.Event)
	}
	if frame.Kind != progress.KindInstall || frame.OperationID != "op-1" {
		t.Errorf("update = %+v", frame.Update)
	}
	if frame.Fraction != 0.42 {
		t.Errorf("fraction = %v", frame.Fraction)
	}
}

func TestDecodeEventFrame_CarriesTypedError(t *testing.T) {
	frame, err := DecodeEventFrame([]byte(`{"event":"progress","kind":"install","operationId":"op-2","done":true,"error":{"code":"NOT_A_CODE","message":"boom"}}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if frame.Err == nil {
		t.Fatal("missing error")
	}
	if frame.Err.Code != apperr.CodeUnknown {
		t.Errorf("code = %s, want normalized %s", frame.Err.Code, apperr.CodeUnknown)
	}
}

func TestRequest_Encode(t *testing.T) {
	req := &Request{Command: "mods_list"}
	data, err := req.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if string(data) != `{"command":"mods_list"}` {
		t.Errorf("encoded = %s", data)
	}
}

func TestDefaultSocketPath(t *testing.T) {
	path := DefaultSocketPath()
	if path == "" {
		t.Fatal("empty socket path")
	}
	if filepath.Base(path) != "daemon.sock" {
		t.Errorf("unexpected socket file name in %q", path)
	}
}
