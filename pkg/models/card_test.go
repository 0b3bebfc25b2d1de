package models_test

import (
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"cardsnap/pkg/models"
)

var _ = Describe("Card", func() {
	Describe("FullName", func() {
		DescribeTable("joining name parts",
			func(first, last, expected string) {
				card := models.Card{FirstName: first, LastName: last}
				Expect(card.FullName()).To(Equal(expected))
			},
			Entry("both parts", "Ada", "Lovelace", "Ada Lovelace"),
			Entry("first only", "Ada", "", "Ada"),
			Entry("last only", "", "Lovelace", "Lovelace"),
			Entry("whitespace padding", " Ada ", " Lovelace ", "Ada Lovelace"),
			Entry("nothing extracted", "", "", "(unknown)"),
			Entry("only whitespace", "  ", "  ", "(unknown)"),
		)
	})

	Describe("HasSummary", func() {
		It("is false until the backend generates a portrait", func() {
			card := models.Card{}
			Expect(card.HasSummary()).To(BeFalse())

			card.SummaryImageURL = "/media/abc_summary.png"
			Expect(card.HasSummary()).To(BeTrue())
		})
	})

	It("decodes the backend's wire shape verbatim", func() {
		payload := `{
			"id": "abc-123",
			"first_name": "Grace",
			"last_name": "Hopper",
			"company": "Eckert-Mauchly",
			"company_logo_description": "blue anchor",
			"email": "grace@em.example",
			"phone": "(555) 010-1906",
			"address": "Philadelphia, PA",
			"meeting_context": "compiler symposium",
			"priorities": "automatic programming",
			"personal_notes": "navy stories",
			"captured_at": "2026-08-29T09:15:00+00:00",
			"source_image_url": "/media/abc-123_source.jpg",
			"summary_image_url": null,
			"raw_ocr_json": "{\"first_name\": \"Grace\"}"
		}`

		var card models.Card
		Expect(json.Unmarshal([]byte(payload), &card)).To(Succeed())
		Expect(card.FullName()).To(Equal("Grace Hopper"))
		Expect(card.CompanyLogoDescription).To(Equal("blue anchor"))
		Expect(card.Phone).To(Equal("(555) 010-1906"))
		Expect(card.SourceImageURL).To(Equal("/media/abc-123_source.jpg"))
		Expect(card.HasSummary()).To(BeFalse())
		Expect(card.RawOCRJSON).To(ContainSubstring("Grace"))
	})
})
