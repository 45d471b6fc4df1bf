package langdetect

import (
	"testing"
)

func BenchmarkDetectC(b *testing.B) {
	code := []byte(`#include <stdio.h>

int main(void) {
    printf("Hello, World!\n");
    return 0;
}`)
	b.ResetTimer()
	for range b.N {
		Detect(code)
	}
}

func BenchmarkDetectPython(b *testing.B) {
	code := []byte(`def hello():
    print("Hello, World!")

if __name__ == "__main__":
    hello()`)
	b.ResetTimer()
	for range b.N {
		Detect(code)
	}
}

func BenchmarkDetectJavaScript(b *testing.B) {
	code := []byte(`function hello() {
  console.log("Hello, World!");
}
hello();`)
	b.ResetTimer()
	for range b.N {
		Detect(code)
	}
}
