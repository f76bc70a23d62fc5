package quiz

const (
	// DefaultCourse is the course identifier of the default catalog.
	DefaultCourse = "cs6200"

	protoFile = "dfs-service.proto"
)

// DefaultCatalog returns the built-in gRPC DFS project quizzes.
func DefaultCatalog() Catalog {
	return Catalog{
		"part1": {
			Assignment: "pr4_grpc",
			Dir:        "part1",
			Files:      partFiles("p1"),
		},
		"part2": {
			Assignment: "pr4_grpc_dfs",
			Dir:        "part2",
			Files:      partFiles("p2"),
		},
		"readme": {
			Assignment: "pr4_readme",
			Dir:        ".",
			Readme:     []string{"readme-student.md", "readme-student.pdf"},
		},
	}
}

func partFiles(suffix string) []string {
	files := make([]string, 0, 7)

	for _, base := range []string{"dfslib-clientnode", "dfslib-servernode", "dfslib-shared"} {
		files = append(files, base+"-"+suffix+".cpp", base+"-"+suffix+".h")
	}

	return append(files, protoFile)
}
