package directive

import (
	"reflect"
	"strings"
	"testing"
)

func TestParse_SingleDirective(t *testing.T) {
	text := `Let me check. <TOOL_CALL>check_transfer_requirements(from_school="De Anza", to_school="UC Berkeley")</TOOL_CALL>`

	got := Parse(text)
	if len(got) != 1 {
		t.Fatalf("Parse returned %d directives, want 1", len(got))
	}

	if got[0].Tool != "check_transfer_requirements" {
		t.Errorf("Tool = %q, want %q", got[0].Tool, "check_transfer_requirements")
	}

	want := map[string]any{
		"from_school": "De Anza",
		"to_school":   "UC Berkeley",
	}
	if !reflect.DeepEqual(got[0].Params, want) {
		t.Errorf("Params = %v, want %v", got[0].Params, want)
	}
}

func TestParse_NoDirectives(t *testing.T) {
	for _, text := range []string{
		"",
		"Just a plain answer about transferring.",
		"Mentions <TOOL_CALL> without a call.",
	} {
		if got := Parse(text); len(got) != 0 {
			t.Errorf("Parse(%q) = %v, want none", text, got)
		}
	}
}

func TestParse_NumericCoercion(t *testing.T) {
	text := `<TOOL_CALL>search_universities(major="Biology", limit="5", region="")</TOOL_CALL>`

	got := Parse(text)
	if len(got) != 1 {
		t.Fatalf("Parse returned %d directives, want 1", len(got))
	}

	params := got[0].Params
	if v, ok := params["limit"].(float64); !ok || v != 5 {
		t.Errorf("limit = %v (%T), want float64 5", params["limit"], params["limit"])
	}
	if v, ok := params["major"].(string); !ok || v != "Biology" {
		t.Errorf("major = %v (%T), want string Biology", params["major"], params["major"])
	}
	// Empty string is not numeric.
	if v, ok := params["region"].(string); !ok || v != "" {
		t.Errorf("region = %v (%T), want empty string", params["region"], params["region"])
	}
}

func TestParse_MultipleDirectivesInOrder(t *testing.T) {
	text := `First <TOOL_CALL>get_tuition_info(school="UCLA")</TOOL_CALL> and then ` +
		`<TOOL_CALL>get_application_deadlines(school="UCLA", term="Fall 2026")</TOOL_CALL> done.`

	got := Parse(text)
	if len(got) != 2 {
		t.Fatalf("Parse returned %d directives, want 2", len(got))
	}
	if got[0].Tool != "get_tuition_info" || got[1].Tool != "get_application_deadlines" {
		t.Errorf("order = [%s, %s], want [get_tuition_info, get_application_deadlines]",
			got[0].Tool, got[1].Tool)
	}
}

func TestParse_MalformedIgnored(t *testing.T) {
	cases := []string{
		`<TOOL_CALL>missing_close(school="UCLA")`,
		`<TOOL_CALL>no_parens</TOOL_CALL>`,
		`<TOOL_CALL>unquoted(school=UCLA)</TOOL_CALL>`,
		`<TOOL_CALL>unterminated(school="UCLA)</TOOL_CALL>`,
		`<TOOL_CALL>(school="UCLA")</TOOL_CALL>`,
	}
	for _, text := range cases {
		if got := Parse(text); len(got) != 0 {
			t.Errorf("Parse(%q) = %v, want none", text, got)
		}
	}
}

func TestParse_MalformedDoesNotHideLaterDirective(t *testing.T) {
	text := `<TOOL_CALL>broken(arg=nope)</TOOL_CALL> then ` +
		`<TOOL_CALL>get_tuition_info(school="SJSU")</TOOL_CALL>`

	got := Parse(text)
	if len(got) != 1 {
		t.Fatalf("Parse returned %d directives, want 1", len(got))
	}
	if got[0].Tool != "get_tuition_info" {
		t.Errorf("Tool = %q, want get_tuition_info", got[0].Tool)
	}
}

func TestParse_ValueLengthBound(t *testing.T) {
	ok := strings.Repeat("a", MaxValueLen)
	tooLong := strings.Repeat("a", MaxValueLen+1)

	got := Parse(`<TOOL_CALL>t(v="` + ok + `")</TOOL_CALL>`)
	if len(got) != 1 {
		t.Fatalf("value at bound: got %d directives, want 1", len(got))
	}

	got = Parse(`<TOOL_CALL>t(v="` + tooLong + `")</TOOL_CALL>`)
	if len(got) != 0 {
		t.Fatalf("value over bound: got %d directives, want 0", len(got))
	}
}

func TestParse_SeparatorVariants(t *testing.T) {
	// Commas between parameters are optional; whitespace alone works too.
	for _, text := range []string{
		`<TOOL_CALL>t(a="1",b="2")</TOOL_CALL>`,
		`<TOOL_CALL>t(a="1" b="2")</TOOL_CALL>`,
		`<TOOL_CALL>t( a="1" , b="2" )</TOOL_CALL>`,
	} {
		got := Parse(text)
		if len(got) != 1 {
			t.Fatalf("Parse(%q) returned %d directives, want 1", text, len(got))
		}
		if len(got[0].Params) != 2 {
			t.Errorf("Parse(%q) params = %v, want 2 entries", text, got[0].Params)
		}
	}
}

func TestParse_NoParams(t *testing.T) {
	got := Parse(`<TOOL_CALL>connect_advisor()</TOOL_CALL>`)
	if len(got) != 1 {
		t.Fatalf("Parse returned %d directives, want 1", len(got))
	}
	if got[0].Tool != "connect_advisor" || len(got[0].Params) != 0 {
		t.Errorf("got %+v, want connect_advisor with no params", got[0])
	}
}
