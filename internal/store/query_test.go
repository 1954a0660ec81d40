package store

import (
	"testing"
)

// ============================================================================
// WhereBuilder Tests
// ============================================================================

func TestNewWhereBuilder(t *testing.T) {
	wb := NewWhereBuilder()

	if wb.argIndex != 1 {
		t.Errorf("expected argIndex to be 1, got %d", wb.argIndex)
	}
	if len(wb.conditions) != 0 {
		t.Errorf("expected empty conditions, got %d", len(wb.conditions))
	}
}

func TestWhereBuilder_Build_Empty(t *testing.T) {
	clause, args := NewWhereBuilder().Build()

	if clause != "" {
		t.Errorf("expected empty string for no conditions, got %q", clause)
	}
	if args != nil {
		t.Errorf("expected nil args for no conditions, got %v", args)
	}
}

func TestWhereBuilder_Add(t *testing.T) {
	tests := []struct {
		name       string
		pairs      [][2]string
		wantClause string
		wantArgs   []any
	}{
		{
			name:       "single condition",
			pairs:      [][2]string{{"status", "שולם"}},
			wantClause: " WHERE status = $1",
			wantArgs:   []any{"שולם"},
		},
		{
			name:       "multiple conditions",
			pairs:      [][2]string{{"therapist_id", "1"}, {"treatment_status", "בטיפול"}},
			wantClause: " WHERE therapist_id = $1 AND treatment_status = $2",
			wantArgs:   []any{"1", "בטיפול"},
		},
		{
			name:       "empty value skipped",
			pairs:      [][2]string{{"status", ""}, {"patient_status", "בטיפול"}},
			wantClause: " WHERE patient_status = $1",
			wantArgs:   []any{"בטיפול"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wb := NewWhereBuilder()
			for _, p := range tt.pairs {
				wb.Add(p[0], p[1])
			}
			clause, args := wb.Build()

			if clause != tt.wantClause {
				t.Errorf("clause = %q, want %q", clause, tt.wantClause)
			}
			if len(args) != len(tt.wantArgs) {
				t.Fatalf("args = %v, want %v", args, tt.wantArgs)
			}
			for i := range args {
				if args[i] != tt.wantArgs[i] {
					t.Errorf("args[%d] = %v, want %v", i, args[i], tt.wantArgs[i])
				}
			}
		})
	}
}

func TestWhereBuilder_NextArgIndex(t *testing.T) {
	wb := NewWhereBuilder()

	if wb.NextArgIndex() != 1 {
		t.Errorf("expected initial NextArgIndex to be 1, got %d", wb.NextArgIndex())
	}
	wb.Add("a", "x")
	if wb.NextArgIndex() != 2 {
		t.Errorf("expected NextArgIndex after 1 add to be 2, got %d", wb.NextArgIndex())
	}
	wb.AddSearch("term", "name", "email")
	if wb.NextArgIndex() != 3 {
		t.Errorf("expected search to use one placeholder, got next %d", wb.NextArgIndex())
	}
}

func TestWhereBuilder_AddSearch(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		exprs      []string
		wantClause string
		wantArg    string
	}{
		{
			name:       "empty query skipped",
			query:      "",
			exprs:      []string{"patient_name"},
			wantClause: "",
		},
		{
			name:       "blank query skipped",
			query:      "   ",
			exprs:      []string{"patient_name"},
			wantClause: "",
		},
		{
			name:       "no expressions skipped",
			query:      "כהן",
			wantClause: "",
		},
		{
			name:       "single expression",
			query:      "כהן",
			exprs:      []string{"patient_name"},
			wantClause: " WHERE (patient_name ILIKE $1)",
			wantArg:    "%כהן%",
		},
		{
			name:       "multiple expressions share placeholder",
			query:      "test",
			exprs:      []string{`"name"`, `"email"`},
			wantClause: ` WHERE ("name" ILIKE $1 OR "email" ILIKE $1)`,
			wantArg:    "%test%",
		},
		{
			name:       "like metacharacters escaped",
			query:      "50%_off",
			exprs:      []string{"patient_name"},
			wantClause: " WHERE (patient_name ILIKE $1)",
			wantArg:    `%50\%\_off%`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wb := NewWhereBuilder()
			wb.AddSearch(tt.query, tt.exprs...)

			clause, args := wb.Build()
			if clause != tt.wantClause {
				t.Errorf("clause = %q, want %q", clause, tt.wantClause)
			}
			if tt.wantArg == "" {
				if len(args) != 0 {
					t.Errorf("expected no args, got %v", args)
				}
				return
			}
			if len(args) != 1 || args[0] != tt.wantArg {
				t.Errorf("args = %v, want [%q]", args, tt.wantArg)
			}
		})
	}
}

// ============================================================================
// quoteIdentifier Tests
// ============================================================================

func TestQuoteIdentifier(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "normal identifier", input: "patients", want: `"patients"`},
		{name: "mixed case preserved", input: "FirstName", want: `"FirstName"`},
		{name: "reserved word still quoted", input: "select", want: `"select"`},
		{name: "contains double quote - escaped", input: `user"name`, want: `"user""name"`},
		{name: "sql injection attempt safely quoted", input: `x"; DROP TABLE patients; --`, want: `"x""; DROP TABLE patients; --"`},
		{name: "empty string", input: "", want: `""`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := quoteIdentifier(tt.input); got != tt.want {
				t.Errorf("quoteIdentifier(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestColumnList(t *testing.T) {
	got := columnList([]string{"id", "first_name"})
	if want := `"id", "first_name"`; got != want {
		t.Errorf("columnList() = %q, want %q", got, want)
	}
}

func TestPageOf(t *testing.T) {
	p := pageOf[int](nil, 21, 3, 10)
	if p.Items == nil || len(p.Items) != 0 {
		t.Errorf("Items = %v, want empty non-nil", p.Items)
	}
	if p.TotalPages != 3 {
		t.Errorf("TotalPages = %d, want 3", p.TotalPages)
	}
}
