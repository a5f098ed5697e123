// Command weakprng demonstrates and performs xorshift128+ state recovery.
package main

func main() {
	Execute()
}
