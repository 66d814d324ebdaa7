package main

import (
	"fmt"
	"os"

	"wow-m2-converter/internal/m2"
	"wow-m2-converter/internal/m2reader"
)

// inspect dumps header and skin contents of .m2 files for debugging.
func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: inspect <model.m2> [...]")
		os.Exit(2)
	}

	exitCode := 0
	for _, arg := range os.Args[1:] {
		if err := inspect(arg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s: %v\n", arg, err)
			exitCode = 1
		}
	}
	os.Exit(exitCode)
}

func inspect(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	hdr, err := m2.ParseHeader(m2reader.New(data))
	if err != nil {
		return err
	}

	fmt.Printf("\n=== %s ===\n", path)
	fmt.Printf("Name:      %s\n", hdr.Name)
	fmt.Printf("Version:   %d (%s)\n", hdr.Version, layoutName(hdr.Layout))
	fmt.Printf("Vertices:  %d\n", hdr.Vertices.Count)
	fmt.Printf("Bones:     %d\n", hdr.Bones.Count)
	fmt.Printf("Sequences: %d (global: %d)\n", hdr.Sequences.Count, hdr.GlobalSequences.Count)
	fmt.Printf("Textures:  %d (lookup: %d)\n", hdr.Textures.Count, hdr.TextureLookup.Count)
	fmt.Printf("Views:     %d\n", hdr.ViewCount)

	model, err := m2.Parse(data)
	if err != nil {
		// Header-only dump still has value for unsupported layouts
		fmt.Printf("Full parse: %v\n", err)
		return nil
	}

	for _, w := range model.Warnings {
		fmt.Printf("Warning:   %s\n", w)
	}

	fmt.Println("--- SEQUENCES ---")
	for i, s := range model.Sequences {
		fmt.Printf("  [%d] anim=%d.%d range=[%d..%d) move=%.2f flags=%#x\n",
			i, s.AnimID, s.SubID, s.Start, s.End, s.MoveSpeed, s.Flags)
	}

	fmt.Println("--- TEXTURES ---")
	for i, t := range model.Textures {
		if t.Type == m2.TexHardcoded {
			fmt.Printf("  [%d] type=%d file=%q\n", i, t.Type, t.Filename)
		} else {
			fmt.Printf("  [%d] type=%d (replaceable)\n", i, t.Type)
		}
	}

	if model.Skin != nil {
		fmt.Println("--- SUBMESHES ---")
		for _, sub := range model.Skin.Submeshes {
			fmt.Printf("  [%d] id=%d (group %d variant %d) verts=%d..%d tris=%d\n",
				sub.Index, sub.ID, sub.Group(), sub.Variant(),
				sub.VertexStart, int(sub.VertexStart)+int(sub.VertexCount)-1,
				sub.IndexCount/3)
		}

		fmt.Println("--- BATCHES ---")
		for i, b := range model.Skin.Batches {
			texType := int32(-1)
			if t, ok := m2.ResolveTextureType(b, model.TextureLookup, model.Textures); ok {
				texType = int32(t)
			}
			fmt.Printf("  [%d] submesh=%d material=%d texType=%d\n",
				i, b.SubmeshIndex, b.MaterialIndex, texType)
		}
	}

	return nil
}

func layoutName(l m2.Layout) string {
	switch l {
	case m2.LayoutClassic:
		return "classic"
	case m2.LayoutWrath:
		return "wrath"
	default:
		return "unknown"
	}
}
