package step

import (
	"errors"
	"strings"
	"testing"
)

// wikiFile is the well-known minimal AP214 example: one part, eleven
// records, ids 10 through 20.
const wikiFile = `ISO-10303-21;
HEADER;
FILE_DESCRIPTION(('A minimal AP214 example with a single part'),'2;1');
FILE_NAME('demo','2003-12-27T11:57:53',('Lothar Klein'),('LKSoft'),' ','IDA-STEP',' ');
FILE_SCHEMA(('AUTOMOTIVE_DESIGN { 1 0 10303 214 2 1 1}'));
ENDSEC;
DATA;
#10=ORGANIZATION('O0001','LKSoft','company');
#11=PRODUCT_DEFINITION_CONTEXT('part definition',#12,'manufacturing');
#12=APPLICATION_CONTEXT('mechanical design');
#13=APPLICATION_PROTOCOL_DEFINITION('','automotive_design',2003,#12);
#14=PRODUCT_DEFINITION('0',$,#15,#11);
#15=PRODUCT_DEFINITION_FORMATION('1',$,#16);
#16=PRODUCT('A0001','Test Part 1','',(#18));
#17=PRODUCT_RELATED_PRODUCT_CATEGORY('part',$,(#16));
#18=PRODUCT_CONTEXT('',#12,'');
#19=APPLIED_ORGANIZATION_ASSIGNMENT(#10,#20,(#16));
#20=ORGANIZATION_ROLE('id owner');
ENDSEC;
END-ISO-10303-21;
`

func TestParse_WikiFile(t *testing.T) {
	m, err := Parse([]byte(wikiFile))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(m.Header) != 3 {
		t.Fatalf("expected 3 header entries, got %d", len(m.Header))
	}
	if m.Header[0].Name != "FILE_DESCRIPTION" {
		t.Errorf("expected FILE_DESCRIPTION, got %s", m.Header[0].Name)
	}
	if m.Len() != 11 {
		t.Fatalf("expected 11 records, got %d", m.Len())
	}
	if m.NextID != 21 {
		t.Errorf("expected next id 21, got %d", m.NextID)
	}

	wantDefs := map[int64]string{
		10: "ORGANIZATION('O0001','LKSoft','company')",
		11: "PRODUCT_DEFINITION_CONTEXT('part definition',#12,'manufacturing')",
		12: "APPLICATION_CONTEXT('mechanical design')",
		13: "APPLICATION_PROTOCOL_DEFINITION('','automotive_design',2003,#12)",
		14: "PRODUCT_DEFINITION('0',$,#15,#11)",
		15: "PRODUCT_DEFINITION_FORMATION('1',$,#16)",
		16: "PRODUCT('A0001','Test Part 1','',(#18))",
		17: "PRODUCT_RELATED_PRODUCT_CATEGORY('part',$,(#16))",
		18: "PRODUCT_CONTEXT('',#12,'')",
		19: "APPLIED_ORGANIZATION_ASSIGNMENT(#10,#20,(#16))",
		20: "ORGANIZATION_ROLE('id owner')",
	}
	for id, want := range wantDefs {
		e, ok := m.Get(id)
		if !ok {
			t.Errorf("record #%d missing", id)
			continue
		}
		if got := e.Def(); got != want {
			t.Errorf("record #%d: expected %s, got %s", id, want, got)
		}
	}
}

func TestParse_EmptySections(t *testing.T) {
	m, err := Parse([]byte("ISO-10303-21;HEADER;ENDSEC;DATA;ENDSEC;END-ISO-10303-21;"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(m.Header) != 0 {
		t.Errorf("expected empty header, got %d entries", len(m.Header))
	}
	if m.Len() != 0 {
		t.Errorf("expected empty data, got %d records", m.Len())
	}
	if m.NextID != 1 {
		t.Errorf("expected next id 1, got %d", m.NextID)
	}
}

func TestParse_ComplexInstance(t *testing.T) {
	input := "ISO-10303-21;HEADER;ENDSEC;DATA;" +
		"#5=(NAMED_UNIT(*)SI_UNIT($,.STERADIAN.)SOLID_ANGLE_UNIT());" +
		"ENDSEC;END-ISO-10303-21;"
	m, err := Parse([]byte(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	e, ok := m.Get(5)
	if !ok {
		t.Fatal("record #5 missing")
	}
	if !e.Complex() {
		t.Fatal("expected a complex instance")
	}
	if len(e.Args) != 3 {
		t.Fatalf("expected 3 parts, got %d", len(e.Args))
	}
	names := []string{"NAMED_UNIT", "SI_UNIT", "SOLID_ANGLE_UNIT"}
	for i, want := range names {
		part, ok := e.Args[i].(Typed)
		if !ok {
			t.Fatalf("part %d: expected Typed, got %T", i, e.Args[i])
		}
		if part.Name != want {
			t.Errorf("part %d: expected %s, got %s", i, want, part.Name)
		}
	}
	if got := e.Def(); got != "(NAMED_UNIT(*)SI_UNIT($,.STERADIAN.)SOLID_ANGLE_UNIT())" {
		t.Errorf("unexpected definition %s", got)
	}
}

func TestParse_NestedValues(t *testing.T) {
	input := "ISO-10303-21;HEADER;ENDSEC;DATA;" +
		`#1=FOO((1,(2.5,#1)),BAR(.T.,$),*,"0FF");` +
		"ENDSEC;END-ISO-10303-21;"
	m, err := Parse([]byte(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	e, _ := m.Get(1)
	want := List{
		List{Integer(1), List{Real(2.5), Ref(1)}},
		Typed{Name: "BAR", Args: List{Enum("T"), Omitted{}}},
		Redeclared{},
		Binary("0FF"),
	}
	if !Equal(e.Args, want) {
		t.Errorf("argument tree mismatch: got %s", e.Def())
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			"missing record semicolon",
			"ISO-10303-21;HEADER;ENDSEC;DATA;#1=FOO()ENDSEC;END-ISO-10303-21;",
			"expected ';'",
		},
		{
			"duplicate id",
			"ISO-10303-21;HEADER;ENDSEC;DATA;#1=A();#1=B();ENDSEC;END-ISO-10303-21;",
			"duplicate entity id #1",
		},
		{
			"zero id",
			"ISO-10303-21;HEADER;ENDSEC;DATA;#0=A();ENDSEC;END-ISO-10303-21;",
			"entity id must be positive",
		},
		{
			"unbalanced parens",
			"ISO-10303-21;HEADER;ENDSEC;DATA;#1=A((1,2);ENDSEC;END-ISO-10303-21;",
			"expected ')'",
		},
		{
			"missing data section",
			"ISO-10303-21;HEADER;ENDSEC;END-ISO-10303-21;",
			"expected DATA",
		},
		{
			"trailing content",
			"ISO-10303-21;HEADER;ENDSEC;DATA;ENDSEC;END-ISO-10303-21;#2=B();",
			"expected end of input",
		},
		{
			"bad value",
			"ISO-10303-21;HEADER;ENDSEC;DATA;#1=A(=);ENDSEC;END-ISO-10303-21;",
			"expected a value",
		},
		{
			"empty complex instance",
			"ISO-10303-21;HEADER;ENDSEC;DATA;#1=();ENDSEC;END-ISO-10303-21;",
			"expected identifier",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			if err == nil {
				t.Fatal("expected error, got none")
			}
			var se *SyntaxError
			if !errors.As(err, &se) {
				t.Fatalf("expected *SyntaxError, got %T", err)
			}
			if !strings.Contains(se.Msg, tt.want) {
				t.Errorf("expected message containing %q, got %q", tt.want, se.Msg)
			}
		})
	}
}

func TestParse_HeaderArguments(t *testing.T) {
	m, err := Parse([]byte(wikiFile))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	name := m.Header[1]
	if name.Name != "FILE_NAME" {
		t.Fatalf("expected FILE_NAME, got %s", name.Name)
	}
	if len(name.Args) != 7 {
		t.Fatalf("expected 7 arguments, got %d", len(name.Args))
	}
	if !Equal(name.Args[0], String("demo")) {
		t.Errorf("expected name 'demo', got %v", name.Args[0])
	}
	if !Equal(name.Args[2], List{String("Lothar Klein")}) {
		t.Errorf("unexpected author %v", name.Args[2])
	}
}

func TestParseReader(t *testing.T) {
	m, err := ParseReader(strings.NewReader(wikiFile))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Len() != 11 {
		t.Errorf("expected 11 records, got %d", m.Len())
	}
}
