package output_test

import (
	"bytes"
	"fmt"
	"io"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/billetera/pkg/output"
)

type balance struct {
	Name  string  `json:"nombre" yaml:"nombre"`
	Saldo float64 `json:"saldo" yaml:"saldo"`
}

var _ = Describe("Printer", func() {
	var (
		buf  *bytes.Buffer
		v    balance
		text func(io.Writer) error
	)

	BeforeEach(func() {
		buf = &bytes.Buffer{}
		v = balance{Name: "Ana", Saldo: 12.5}
		text = func(w io.Writer) error {
			_, err := fmt.Fprintf(w, "%s: %.2f\n", v.Name, v.Saldo)
			return err
		}
	})

	It("delegates text to the callback", func() {
		Expect(output.NewPrinter(buf, output.FormatText).Print(v, text)).To(Succeed())
		Expect(buf.String()).To(Equal("Ana: 12.50\n"))
	})

	It("writes indented json", func() {
		Expect(output.NewPrinter(buf, output.FormatJSON).Print(v, text)).To(Succeed())
		Expect(buf.String()).To(MatchJSON(`{"nombre":"Ana","saldo":12.5}`))
		Expect(buf.String()).To(ContainSubstring("\n  \"nombre\""))
	})

	It("writes yaml", func() {
		Expect(output.NewPrinter(buf, output.FormatYAML).Print(v, text)).To(Succeed())
		Expect(buf.String()).To(MatchYAML("nombre: Ana\nsaldo: 12.5\n"))
	})
})

var _ = Describe("ParseFormat", func() {
	It("accepts known formats", func() {
		for _, s := range []string{"", "text", "json", "yaml"} {
			_, err := output.ParseFormat(s)
			Expect(err).NotTo(HaveOccurred(), s)
		}
	})

	It("rejects others", func() {
		_, err := output.ParseFormat("xml")
		Expect(err).To(MatchError(ContainSubstring("unknown output format")))
	})
})
