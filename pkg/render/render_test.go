package render_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/billetera/pkg/render"
)

var _ = Describe("New", func() {
	It("builds each known mode", func() {
		for _, mode := range render.Modes {
			r, err := render.New(mode, 60)
			Expect(err).NotTo(HaveOccurred())
			Expect(r).NotTo(BeNil())
		}
	})

	It("rejects unknown modes", func() {
		_, err := render.New("rtf", 0)
		Expect(err).To(MatchError(ContainSubstring("unknown render mode")))
	})
})

var _ = Describe("Normalize", func() {
	It("turns bullet dots into markdown items", func() {
		Expect(render.Normalize("• uno\n• dos")).To(Equal("- uno\n- dos"))
	})

	It("separates a list from the paragraph above it", func() {
		Expect(render.Normalize("Opciones:\n1. Recargar\n2. Transferir")).
			To(Equal("Opciones:\n\n1. Recargar\n2. Transferir"))
	})

	It("leaves prose alone", func() {
		Expect(render.Normalize("Hola\nmundo")).To(Equal("Hola\nmundo"))
	})
})

var _ = Describe("HTML", func() {
	var h *render.HTML

	BeforeEach(func() {
		h = render.NewHTML()
	})

	It("turns newlines into breaks", func() {
		out, err := h.Render("Hola\nmundo")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("<p>Hola<br"))
		Expect(out).To(ContainSubstring("mundo</p>"))
	})

	It("wraps numbered runs in an ordered list", func() {
		out, err := h.Render("Pasos:\n1. Ingresa el código\n2. Confirma")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("<ol>"))
		Expect(out).To(ContainSubstring("<li>Ingresa el código</li>"))
		Expect(out).To(ContainSubstring("<li>Confirma</li>"))
	})

	It("wraps bullet runs in an unordered list", func() {
		out, err := h.Render("• saldo\n- historial\n* tarjetas")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("<ul>"))
		Expect(out).To(ContainSubstring("<li>saldo</li>"))
		Expect(out).To(ContainSubstring("<li>tarjetas</li>"))
	})

	It("escapes markup in the answer", func() {
		out, err := h.Render("<script>alert(1)</script> & más")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).NotTo(ContainSubstring("<script>"))
		Expect(out).To(ContainSubstring("&lt;script&gt;"))
		Expect(out).To(ContainSubstring("&amp; más"))
	})
})

var _ = Describe("Plain", func() {
	It("returns the text unchanged", func() {
		out, err := render.Plain{}.Render("**x**")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal("**x**"))
	})
})
