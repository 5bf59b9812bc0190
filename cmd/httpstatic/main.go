// Command httpstatic serves a directory over HTTP.
package main

func main() {
	Execute()
}
