// Command arbor inspects and serves scene descriptions: it projects their
// accessibility tree, walks focus through them, and exposes both over HTTP.
package main

func main() {
	Execute()
}
