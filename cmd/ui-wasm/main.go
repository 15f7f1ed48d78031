//go:build js && wasm

package main

import "github.com/Its-donkey/folio/internal/ui/wasm"

func main() {
	wasm.RunApp()
}
