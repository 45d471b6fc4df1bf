package repair

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNeedsCTerminator(t *testing.T) {
	t.Parallel()

	tests := []struct {
		line string
		want bool
	}{
		{"x = 5", true},
		{"return 0", true},
		{"break", true},
		{"printf(msg)", true},
		{"int count", true},
		{"uint8_t flags", true},
		{"x = 5;", false},
		{"int main() {", false},
		{"}", false},
		{"a,", false},
		{"if (x == 1)", false},
		{"} else", false},
		{"while (busy)", false},
		{"for (i = 0; i < n; i++)", false},
		{"int main()", false},
		{"void setup(void)", false},
		{"label:", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, needsCTerminator(tt.line))
		})
	}
}

func TestDetectDialect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want string
	}{
		{"hal call", "HAL_Init();", DialectSTM32},
		{"gpio register", "GPIOA->ODR = 1;", DialectSTM32},
		{"rcc register", "RCC->AHB1ENR |= 1;", DialectSTM32},
		{"avr port", "PORTB = 0xFF;", DialectAVR},
		{"avr header", "#include <avr/io.h>", DialectAVR},
		{"esp idf", "esp_restart();", DialectESP32},
		{"freertos", "#include \"freertos/FreeRTOS.h\"", DialectESP32},
		{"plain c", "int main(void) { return 0; }", DialectGeneric},
		{"stm32 wins over avr", "HAL_Delay(1); PORTB = 1;", DialectSTM32},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, DetectDialect(tt.text))
		})
	}
}

func TestCFamily_Analyze(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		path        string
		input       string
		want        string
		wantDialect string
		wantWarns   int
	}{
		{
			name:        "adds terminator",
			path:        "main.c",
			input:       "x = 5\n",
			want:        "x = 5;\n",
			wantDialect: DialectGeneric,
		},
		{
			name:        "inserts opener and closer",
			path:        "main.c",
			input:       "int main()\n",
			want:        "int main()\n{\n}\n",
			wantDialect: DialectGeneric,
		},
		{
			name:        "opener present on next line",
			path:        "main.c",
			input:       "int main()\n{\nreturn 0\n}\n",
			want:        "int main()\n{\n    return 0;\n}\n",
			wantDialect: DialectGeneric,
		},
		{
			name:        "closes open blocks",
			path:        "main.cpp",
			input:       "void loop() {\nif (ready) {\nrun()\n",
			want:        "void loop() {\n    if (ready) {\n        run();\n    }\n}\n",
			wantDialect: DialectGeneric,
		},
		{
			name:        "extra closer is only reported",
			path:        "main.c",
			input:       "x = 1;\n}\n",
			want:        "x = 1;\n}\n",
			wantDialect: DialectGeneric,
			wantWarns:   1,
		},
		{
			name:        "comments and directives are not repaired",
			path:        "main.c",
			input:       "  #include <stdio.h>\n// x = 1 {\n/* y = 2\n   z = 3 */\n",
			want:        "#include <stdio.h>\n// x = 1 {\n/* y = 2\nz = 3 */\n",
			wantDialect: DialectGeneric,
		},
		{
			name:        "directive continuation",
			path:        "main.c",
			input:       "#define MAX(a, b) \\\n  ((a) > (b) ? (a) : (b))\nint x = 1\n",
			want:        "#define MAX(a, b) \\\n((a) > (b) ? (a) : (b))\nint x = 1;\n",
			wantDialect: DialectGeneric,
		},
		{
			name:        "stm32 normalisation",
			path:        "main.c",
			input:       "HAL_Init ();\nGPIOA -> ODR=1;\n",
			want:        "HAL_Init();\nGPIOA->ODR = 1;\n",
			wantDialect: DialectSTM32,
		},
		{
			name:        "avr normalisation",
			path:        "blink.ino",
			input:       "DDRB=0x20;\nPORTB =_BV (5);\n",
			want:        "DDRB = 0x20;\nPORTB = _BV(5);\n",
			wantDialect: DialectAVR,
		},
		{
			name:        "esp32 normalisation",
			path:        "app.c",
			input:       "ESP_ERROR_CHECK (gpio_config (&cfg));\n",
			want:        "ESP_ERROR_CHECK(gpio_config(&cfg));\n",
			wantDialect: DialectESP32,
		},
		{
			name:        "crlf preserved",
			path:        "main.c",
			input:       "x = 5\r\ny = 6\r\n",
			want:        "x = 5;\r\ny = 6;\r\n",
			wantDialect: DialectGeneric,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			an := analyze(t, tt.path, tt.input)
			assert.Equal(t, tt.want, applied(t, an))
			assert.Equal(t, tt.wantDialect, an.Dialect)
			assert.Len(t, an.Warnings, tt.wantWarns, "warnings: %v", an.Warnings)
			assert.Equal(t, OutcomeFallback, an.Outcome)
		})
	}
}

func TestCFamily_StringBraceReported(t *testing.T) {
	t.Parallel()

	// The line pass counts the quoted brace and closes it; the literal-aware
	// check then sees one closer too many.
	an := analyze(t, "main.c", "puts(\"{\");\n")
	assert.Equal(t, "puts(\"{\");\n}\n", applied(t, an))
	assert.Len(t, an.Warnings, 1)
}

func TestFormatCFallback(t *testing.T) {
	t.Parallel()

	input := "void f() {\n\t\tif (x) {\n  y = 1;\n      }\n   \n} // done\n"
	want := "void f() {\n    if (x) {\n        y = 1;\n    }\n\n} // done\n"
	assert.Equal(t, want, formatCFallback(input, 4))
	assert.Equal(t, want, formatCFallback(want, 4))
}
