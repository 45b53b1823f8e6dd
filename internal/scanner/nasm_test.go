package scanner

import (
	"context"
	"testing"

	"cgraph/internal/graph"
)

func TestNASMScanner(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		wantDefs []definition
		wantRefs map[string][]string
	}{
		{
			name: "labels and calls",
			src:  "main:\n call foo\n call foo\n jmp .done\n.done: ret\n",
			wantDefs: []definition{
				{"main", graph.KindFunction, "", 1},
			},
			wantRefs: map[string][]string{"main": {"foo", "foo"}},
		},
		{
			name: "data directives",
			src:  "x dd 1\ny: resb 4\nz equ 10\nw: times 4 db 0\n",
			wantDefs: []definition{
				{"x", graph.KindVariable, "dd", 1},
				{"y", graph.KindVariable, "resb", 2},
				{"z", graph.KindVariable, "equ", 3},
				{"w", graph.KindVariable, "db", 4},
			},
			wantRefs: map[string][]string{},
		},
		{
			name: "memory operands",
			src:  "f:\n mov eax, [table + ebx*4]\n mov [rel counter], eax\n mov eax, [.local]\n",
			wantDefs: []definition{
				{"f", graph.KindFunction, "", 1},
			},
			wantRefs: map[string][]string{"f": {"table", "counter"}},
		},
		{
			name: "proc blocks",
			src:  "proc first\n call second\nendp\nproc second\n ret\nendp\n",
			wantDefs: []definition{
				{"first", graph.KindFunction, "", 1},
				{"second", graph.KindFunction, "", 4},
			},
			wantRefs: map[string][]string{"first": {"second"}, "second": nil},
		},
		{
			name: "comments stripped",
			src:  "f: ; call hidden\n call shown ; call hidden\n mov al, ';'\n",
			wantDefs: []definition{
				{"f", graph.KindFunction, "", 1},
			},
			wantRefs: map[string][]string{"f": {"shown"}},
		},
		{
			name:     "local labels are not functions",
			src:      "..@1: ret\n.x: ret\n",
			wantDefs: nil,
			wantRefs: map[string][]string{},
		},
		{
			name: "references outside functions are dropped",
			src:  " call foo\nmain:\n ret\n",
			wantDefs: []definition{
				{"main", graph.KindFunction, "", 2},
			},
			wantRefs: map[string][]string{"main": nil},
		},
		{
			name: "register and sized targets",
			src:  "f:\n call rax\n jmp near bar\n",
			wantDefs: []definition{
				{"f", graph.KindFunction, "", 1},
			},
			wantRefs: map[string][]string{"f": {"bar"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRecorder()
			if err := (NASMScanner{}).Scan(context.Background(), "t.asm", []byte(tt.src), r); err != nil {
				t.Fatalf("Scan() error = %v", err)
			}
			checkDefs(t, r.defs, tt.wantDefs)
			checkRefs(t, r, tt.wantRefs)
		})
	}
}

func TestNASMScanner_FlushOrder(t *testing.T) {
	r := newRecorder()
	src := "a:\n call b\nb:\n call a\n"
	if err := (NASMScanner{}).Scan(context.Background(), "t.asm", []byte(src), r); err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	if len(r.order) != 2 || r.order[0] != "a" || r.order[1] != "b" {
		t.Errorf("flush order = %v, want [a b]", r.order)
	}
}

func TestNASMScanner_IntoGraph(t *testing.T) {
	g := graph.New(graph.DefaultOptions())
	src := "main:\n call work\n call work\nwork:\n ret\n"
	if err := (NASMScanner{}).Scan(context.Background(), "t.asm", []byte(src), g); err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	root, ok := g.Root()
	if !ok {
		t.Fatal("main should be bound as root")
	}
	if n := len(g.Node(root).Callees); n != 1 {
		t.Errorf("main has %d callees, want 1", n)
	}
	work, _ := g.Lookup("work")
	if !g.Node(work).Defined() {
		t.Error("work should be upgraded by its later definition")
	}
}

func TestNASMScanner_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := (NASMScanner{}).Scan(ctx, "t.asm", []byte("main:\n ret\n"), newRecorder())
	if err == nil {
		t.Error("Scan() on a cancelled context should fail")
	}
}
