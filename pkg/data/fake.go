package data

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
)

var fakeHeader = append([]string{
	"id", "datetime", "date_joined", "content_type", "content_body",
	"removed", "removed_user", "removed_moderator",
	"contains_video", "contains_image", "contains_file", "contains_link",
}, FlagColumns...)

var spamWords = []string{"free", "winner", "crypto", "click", "offer", "prize"}

// Generate writes n synthetic content records in the export layout. The same
// seed always produces the same file. Flags are correlated with links,
// late-night posting and spam vocabulary so a classifier has signal to learn.
func Generate(w io.Writer, n int, seed int64) error {
	faker := gofakeit.New(seed)
	cw := csv.NewWriter(w)
	if err := cw.Write(fakeHeader); err != nil {
		return err
	}

	start := time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2016, 12, 31, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		joined := faker.DateRange(start, end).UTC()
		posted := joined.Add(time.Duration(faker.Number(60, 400*24*3600)) * time.Second)

		spammy := faker.Float64Range(0, 1) < 0.3
		body := faker.Sentence(faker.Number(5, 20))
		link := faker.Bool()
		if spammy {
			body += " " + faker.RandomString(spamWords) + " " + faker.RandomString(spamWords)
			link = faker.Float64Range(0, 1) < 0.8
			posted = time.Date(posted.Year(), posted.Month(), posted.Day(), faker.Number(0, 4), faker.Number(0, 59), 0, 0, time.UTC)
		}
		if link {
			body += " " + faker.URL()
		}

		flags := make([]string, len(FlagColumns))
		for j := range flags {
			if faker.Float64Range(0, 1) < 0.03 {
				flags[j] = "1"
			}
		}
		if spammy && faker.Float64Range(0, 1) < 0.85 {
			flags[1] = "1"
		}

		removed := flags[1] == "1" && faker.Bool()
		rec := append([]string{
			strconv.Itoa(i + 1),
			posted.Format("2006-01-02 15:04:05"),
			joined.Format("2006-01-02 15:04:05"),
			faker.RandomString(ContentTypes),
			strings.ReplaceAll(body, "\n", " "),
			tf(removed),
			tf(faker.Float64Range(0, 1) < 0.02),
			tf(removed),
			tf(faker.Float64Range(0, 1) < 0.1),
			tf(faker.Float64Range(0, 1) < 0.2),
			tf(faker.Float64Range(0, 1) < 0.05),
			tf(link),
		}, flags...)
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func tf(b bool) string {
	if b {
		return "t"
	}
	return "f"
}
