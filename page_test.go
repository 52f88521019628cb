package mwdump

import "testing"

func TestStandardNamespaces(t *testing.T) {
	if len(StandardNamespaces) != 16 {
		t.Fatalf("Expected 16 standard namespaces, got %v",
			len(StandardNamespaces))
	}
	fn := StandardNamespaces.Func()

	tests := []struct {
		id   RawNamespace
		want Namespace
		ok   bool
	}{
		{0, Main, true},
		{1, Talk, true},
		{10, Template, true},
		{15, CategoryTalk, true},
		{16, 0, false},
		{-1, 0, false},
		{42, 0, false},
	}
	for _, test := range tests {
		got, ok := fn(test.id)
		if ok != test.ok {
			t.Errorf("Resolving %v: expected ok=%v, got %v",
				test.id, test.ok, ok)
		}
		if ok && got != test.want {
			t.Errorf("Resolving %v: expected %v, got %v",
				test.id, test.want, got)
		}
	}
}

func TestNamespaceMapFunc(t *testing.T) {
	m := NamespaceMap[string]{0: "article", 14: "category"}
	fn := m.Func()
	if v, ok := fn(14); !ok || v != "category" {
		t.Errorf("Expected category, got %v (ok=%v)", v, ok)
	}
	if _, ok := fn(7); ok {
		t.Errorf("Expected 7 to be rejected")
	}
}

func TestNamespaceString(t *testing.T) {
	tests := map[Namespace]string{
		Main:          "Main",
		UserTalk:      "UserTalk",
		CategoryTalk:  "CategoryTalk",
		Namespace(99): "Namespace(99)",
		Namespace(-2): "Namespace(-2)",
	}
	for n, want := range tests {
		if got := n.String(); got != want {
			t.Errorf("Expected %q for %d, got %q", want, int32(n), got)
		}
	}
}
