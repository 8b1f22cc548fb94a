package rental

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scaffold-backend/internal/models"
)

func TestValidateAttachment(t *testing.T) {
	assert.NoError(t, ValidateAttachment("contract.PDF", 1024))
	assert.NoError(t, ValidateAttachment("site photo.jpeg", MaxAttachmentSize))

	err := ValidateAttachment("big.pdf", MaxAttachmentSize+1)
	assert.ErrorIs(t, err, ErrFileTooLarge)
	assert.True(t, IsValidation(err))

	assert.ErrorIs(t, ValidateAttachment("run.exe", 10), ErrUnsupportedFileType)
	assert.ErrorIs(t, ValidateAttachment("noext", 10), ErrUnsupportedFileType)
}

func TestAddAndRemoveAttachment(t *testing.T) {
	c := sampleContract()

	err := AddAttachment(&c, models.Attachment{ID: 1, FileName: "id-card.png", FileSize: 2048})
	require.NoError(t, err)
	require.Len(t, c.Attachments, 1)
	assert.Equal(t, c.ID, c.Attachments[0].ContractID)

	err = AddAttachment(&c, models.Attachment{ID: 2, FileName: "script.sh", FileSize: 20})
	assert.ErrorIs(t, err, ErrUnsupportedFileType)
	assert.Len(t, c.Attachments, 1)

	_, err = RemoveAttachment(&c, 99)
	assert.ErrorIs(t, err, ErrNotFound)

	removed, err := RemoveAttachment(&c, 1)
	require.NoError(t, err)
	assert.Equal(t, "id-card.png", removed.FileName)
	assert.Empty(t, c.Attachments)
}
