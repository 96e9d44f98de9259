package checklist

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	dErrors "visaflow/pkg/domain-errors"
)

type MutateSuite struct {
	suite.Suite
	empty State
}

func (s *MutateSuite) SetupTest() {
	s.empty = Normalize(newTestCatalog(s.T(), false), nil, false)
}

func TestMutateSuite(t *testing.T) {
	suite.Run(t, new(MutateSuite))
}

func (s *MutateSuite) upload(st State, key string) State {
	out, err := AttachFile(st, key, File{URL: "https://files/" + key, Name: key + ".pdf"}, fixedNow)
	s.Require().NoError(err)
	return out
}

func (s *MutateSuite) TestAttachFile() {
	s.Run("sets uploaded and stamps time", func() {
		st := s.upload(s.empty, "passport")
		it, _ := st.Item("passport")
		s.Equal(StatusUploaded, it.Status)
		s.Equal("https://files/passport", it.File.URL)
		s.Equal(fixedNow, it.UpdatedAt)
		s.Equal(fixedNow, st.UpdatedAt)
	})

	s.Run("drops an earlier denial", func() {
		st, err := ApplyReview(s.upload(s.empty, "passport"), "passport",
			Review{ReviewerID: "staff", Decision: DecisionDenied, Reason: "blurry"}, fixedNow)
		s.Require().NoError(err)
		st = s.upload(st, "passport")
		it, _ := st.Item("passport")
		s.Equal(StatusUploaded, it.Status)
		s.Nil(it.Review)
	})

	s.Run("requires a url", func() {
		_, err := AttachFile(s.empty, "passport", File{Name: "x.pdf", URL: "  "}, fixedNow)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("unknown key", func() {
		_, err := AttachFile(s.empty, "driver-license", File{URL: "u"}, fixedNow)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("input state untouched", func() {
		before := s.empty.Clone()
		_ = s.upload(s.empty, "passport")
		s.Equal(before, s.empty)
	})
}

func (s *MutateSuite) TestSubmitForReview() {
	s.Run("uploaded to pending", func() {
		st, err := SubmitForReview(s.upload(s.empty, "passport"), "passport", fixedNow)
		s.Require().NoError(err)
		it, _ := st.Item("passport")
		s.Equal(StatusPendingReview, it.Status)
	})

	s.Run("denied can be resubmitted", func() {
		st, err := ApplyReview(s.upload(s.empty, "passport"), "passport",
			Review{Decision: DecisionDenied, Reason: "expired"}, fixedNow)
		s.Require().NoError(err)
		st, err = SubmitForReview(st, "passport", fixedNow.Add(time.Hour))
		s.Require().NoError(err)
		it, _ := st.Item("passport")
		s.Equal(StatusPendingReview, it.Status)
		s.Empty(it.Reason())
	})

	s.Run("already pending is a no-op", func() {
		st, err := SubmitForReview(s.upload(s.empty, "passport"), "passport", fixedNow)
		s.Require().NoError(err)
		st, err = SubmitForReview(st, "passport", fixedNow)
		s.Require().NoError(err)
		it, _ := st.Item("passport")
		s.Equal(StatusPendingReview, it.Status)
	})

	s.Run("no file", func() {
		_, err := SubmitForReview(s.empty, "passport", fixedNow)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("verified cannot be queued", func() {
		st, err := ApplyReview(s.upload(s.empty, "passport"), "passport", Review{Decision: DecisionVerified}, fixedNow)
		s.Require().NoError(err)
		_, err = SubmitForReview(st, "passport", fixedNow)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidTransition))
	})
}

func (s *MutateSuite) TestApplyReview() {
	s.Run("verification counts and clears reason", func() {
		st, err := ApplyReview(s.empty, "fbi-report",
			Review{ReviewerID: "staff-1", Decision: DecisionVerified, Reason: "looks fine"}, fixedNow)
		s.Require().NoError(err)
		it, _ := st.Item("fbi-report")
		s.Equal(StatusVerified, it.Status)
		s.Empty(it.Review.Reason)
		s.Equal(fixedNow, it.Review.ReviewedAt)
		s.Equal(1, st.Verified)
		s.Equal(0, s.empty.Verified)
	})

	s.Run("denial keeps trimmed reason", func() {
		st, err := ApplyReview(s.empty, "fbi-report",
			Review{Decision: DecisionDenied, Reason: "  missing page  "}, fixedNow)
		s.Require().NoError(err)
		it, _ := st.Item("fbi-report")
		s.Equal(StatusDenied, it.Status)
		s.Equal("missing page", it.Reason())
	})

	s.Run("denial without reason rejected", func() {
		_, err := ApplyReview(s.empty, "fbi-report", Review{Decision: DecisionDenied, Reason: " "}, fixedNow)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("missing decision rejected", func() {
		_, err := ApplyReview(s.empty, "fbi-report", Review{}, fixedNow)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *MutateSuite) TestResetItem() {
	st, err := ApplyReview(s.upload(s.empty, "passport"), "passport", Review{Decision: DecisionVerified}, fixedNow)
	s.Require().NoError(err)
	st, err = SetNotes(st, "passport", " renewed in May ", fixedNow)
	s.Require().NoError(err)
	it, _ := st.Item("passport")
	s.Equal("renewed in May", it.Notes)

	st, err = ResetItem(st, "passport", fixedNow)
	s.Require().NoError(err)
	it, _ = st.Item("passport")
	s.Equal(StatusNotStarted, it.Status)
	s.Nil(it.File)
	s.Nil(it.Review)
	s.Empty(it.Notes)
	s.Equal("Passport", it.Title)
	s.Len(st.Items, 4)
	s.Equal(0, st.Verified)
}
