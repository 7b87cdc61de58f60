package upstream

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/n0madic/go-thinkgate/internal/types"
)

// BuildBody overlays the engine's transformed request onto the client's raw
// JSON body. Fields the engine does not model (stream_options, user, vendor
// extras) pass through untouched; everything the transformation produced is
// written over the original values. orig is the decoded request the
// transformation started from: messages the engine left alone keep their raw
// JSON, including per-message fields the engine does not model
// (reasoning_content on history turns, cache_control and the like). When the
// raw body is unusable the transformed request is serialized on its own.
func BuildBody(raw []byte, orig, out *types.ChatCompletionRequest) ([]byte, error) {
	if len(raw) == 0 || !gjson.ValidBytes(raw) {
		return json.Marshal(out)
	}

	body := raw
	var err error
	set := func(path string, value any) {
		if err != nil {
			return
		}
		body, err = sjson.SetBytes(body, path, value)
	}

	set("model", out.Model)
	if err == nil {
		body, err = overlayMessages(body, orig, out)
	}
	if out.MaxTokens != nil {
		set("max_tokens", *out.MaxTokens)
	}
	if out.Temperature != nil {
		set("temperature", *out.Temperature)
	}
	if out.TopP != nil {
		set("top_p", *out.TopP)
	}
	if out.DoSample != nil {
		set("do_sample", *out.DoSample)
	}
	if out.Reasoning != nil {
		set("reasoning", out.Reasoning)
	}
	if out.Thinking != nil {
		set("thinking", out.Thinking)
	}

	if err != nil {
		return json.Marshal(out)
	}
	return body, nil
}

// overlayMessages rewrites only the message contents the engine actually
// changed. The mutator works copy-on-write, so an untouched message still
// holds the exact content value decoded from the raw body; those indices
// are skipped and the raw JSON stays byte-identical on the wire.
func overlayMessages(body []byte, orig, out *types.ChatCompletionRequest) ([]byte, error) {
	if out.Messages == nil {
		return body, nil
	}
	if orig == nil || len(orig.Messages) != len(out.Messages) {
		return sjson.SetBytes(body, "messages", out.Messages)
	}
	var err error
	for i := range out.Messages {
		if sameContent(orig.Messages[i].Content, out.Messages[i].Content) {
			continue
		}
		body, err = sjson.SetBytes(body, fmt.Sprintf("messages.%d.content", i), out.Messages[i].Content)
		if err != nil {
			return body, err
		}
	}
	return body, nil
}

// sameContent reports whether two message contents are the same value the
// copy-on-write mutator would have carried through unchanged. Strings
// compare by value; block lists compare by slice identity, since a changed
// block list is always a fresh clone. Anything else is treated as changed.
func sameContent(a, b any) bool {
	if a == nil && b == nil {
		return true
	}
	if as, ok := a.(string); ok {
		bs, ok := b.(string)
		return ok && as == bs
	}
	ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
	if ra.Kind() == reflect.Slice && rb.Kind() == reflect.Slice {
		return ra.Pointer() == rb.Pointer() && ra.Len() == rb.Len()
	}
	return false
}
