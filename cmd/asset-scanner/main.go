package main

// main is the entry point for the asset-scanner application. Build-time
// variables live in root.go and are set through -ldflags.
func main() {
	Execute()
}
