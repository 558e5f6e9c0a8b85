// Command regctl inspects and edits registry stores.
package main

func main() {
	execute()
}
