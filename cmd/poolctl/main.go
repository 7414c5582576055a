// Command poolctl builds the configured pool layout and exercises it: a demo
// of every dispatcher operation, a timing harness against the Go heap, and a
// layout report.
package main

func main() {
	execute()
}
