package query

import (
	"errors"
	"strings"
	"testing"
)

func TestSanitize(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "passthrough", in: "project = OPS", want: "project = OPS"},
		{name: "strips markup", in: `summary ~ "<b>urgent</b>"`, want: "summary ~ burgent/b"},
		{name: "collapses whitespace", in: "project =\t OPS  AND\n status = Open", want: "project = OPS AND status = Open"},
		{name: "trims", in: "  duedate <= 7d  ", want: "duedate <= 7d"},
		{name: "empty", in: "", want: ""},
		{name: "only markup", in: `<>"'`, want: ""},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if got := Sanitize(tt.in); got != tt.want {
				t.Fatalf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSanitizeCapsLength(t *testing.T) {
	t.Parallel()
	got := Sanitize(strings.Repeat("a", maxQueryLen+500))
	if len(got) != maxQueryLen {
		t.Fatalf("len = %d, want %d", len(got), maxQueryLen)
	}
}

func TestValidateDangerous(t *testing.T) {
	t.Parallel()
	dangerous := []string{
		"project = OPS; DROP TABLE users",
		"update set resolution = Done",
		"INSERT INTO issues VALUES (1)",
		"delete from issues",
		"1 UNION SELECT password FROM users",
		"exec (shutdown)",
		"key = xp_cmdshell",
		"load_file ('/etc/passwd')",
		"1 INTO OUTFILE '/tmp/x'",
		"benchmark (1000000, md5(1))",
		"sleep (10)",
		"waitfor delay '0:0:10'",
		"a -- comment injection",
		"a /* hidden */ b",
	}
	for _, q := range dangerous {
		if err := Validate(q); !errors.Is(err, ErrDangerousQuery) {
			t.Fatalf("Validate(%q) = %v, want ErrDangerousQuery", q, err)
		}
	}
}

func TestValidateAcceptsNormalQueries(t *testing.T) {
	t.Parallel()
	ok := []string{
		DefaultQuery,
		"project = OPS AND status = Open order by duedate ASC",
		"assignee = currentUser() AND duedate <= 3d",
		// "update" and "select" alone are legitimate field/word usage
		"text ~ 'update the docs'",
		"summary ~ select",
	}
	for _, q := range ok {
		if err := Validate(q); err != nil {
			t.Fatalf("Validate(%q) = %v, want nil", q, err)
		}
	}
}

func TestValidateBlankAndOversized(t *testing.T) {
	t.Parallel()
	for _, q := range []string{"", "   ", "\t\n"} {
		if err := Validate(q); !errors.Is(err, ErrEmptyQuery) {
			t.Fatalf("Validate(%q) = %v, want ErrEmptyQuery", q, err)
		}
	}
	if err := Validate(strings.Repeat("a", maxQueryLen+1)); !errors.Is(err, ErrDangerousQuery) {
		t.Fatalf("oversized query: %v, want ErrDangerousQuery", err)
	}
}
