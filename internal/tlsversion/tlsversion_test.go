package tlsversion_test

import (
	"encoding/json"

	"github.com/fxamacker/cbor/v2"
	. "github.com/nabbar/tlsbench/internal/tlsversion"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"gopkg.in/yaml.v3"
)

var _ = Describe("tlsversion", func() {
	It("Parse should recognize the two supported versions and aliases", func() {
		Expect(Parse("tls12")).To(Equal(VersionTLS12))
		Expect(Parse("TLS1.2")).To(Equal(VersionTLS12))
		Expect(Parse("tls_1_3")).To(Equal(VersionTLS13))
		Expect(Parse("1.3")).To(Equal(VersionTLS13))
		Expect(Parse("unknown")).To(Equal(VersionUnknown))
		Expect(Parse("tls10")).To(Equal(VersionUnknown))
	})

	It("String and numeric conversions work", func() {
		Expect(VersionTLS12.String()).To(Equal("TLS 1.2"))
		Expect(VersionTLS13.String()).To(Equal("TLS 1.3"))
		Expect(VersionTLS12.Uint16()).To(BeNumerically(">", 0))
		Expect(VersionUnknown.Uint16()).To(Equal(uint16(0)))
	})

	It("Marshal/Unmarshal JSON/YAML/CBOR roundtrip", func() {
		type wrapper struct {
			Vrs Version `json:"version" yaml:"version" cbor:"1"`
		}
		v := wrapper{Vrs: VersionTLS13}

		b, e := json.Marshal(v)
		Expect(e).ToNot(HaveOccurred())
		var v2 wrapper
		Expect(json.Unmarshal(b, &v2)).To(Succeed())
		Expect(v2).To(Equal(v))

		b, e = yaml.Marshal(v)
		Expect(e).ToNot(HaveOccurred())
		var v3 wrapper
		Expect(yaml.Unmarshal(b, &v3)).To(Succeed())
		Expect(v3).To(Equal(v))

		b, e = cbor.Marshal(v)
		Expect(e).ToNot(HaveOccurred())
		var v4 wrapper
		Expect(cbor.Unmarshal(b, &v4)).To(Succeed())
		Expect(v4).To(Equal(v))
	})
})
