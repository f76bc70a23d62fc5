package main

import "github.com/oshokin/course-submit/cmd/course-submit/cmd"

func main() {
	cmd.Execute()
}
