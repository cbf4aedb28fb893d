package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmails(t *testing.T) {
	got := Emails("Try Jane.Doe@PwC.com or jdoe@pwc.com. Also jane.doe@pwc.com again.")
	assert.Equal(t, []string{"jane.doe@pwc.com", "jdoe@pwc.com"}, got)
	assert.Empty(t, Emails("nothing to see"))
}

func TestIsEmail(t *testing.T) {
	assert.True(t, IsEmail("jane.doe@pwc.com"))
	assert.True(t, IsEmail("  jane+jobs@example.co.uk "))
	assert.False(t, IsEmail("jane.doe at pwc"))
	assert.False(t, IsEmail("mail jane@pwc.com now"))
	assert.False(t, IsEmail(""))
}

func TestFirstURL(t *testing.T) {
	assert.Equal(t, "https://acme.com/about", FirstURL("see (https://acme.com/about)."))
	assert.Equal(t, "", FirstURL("no links"))
}

func TestLinkedInCompanySlug(t *testing.T) {
	assert.Equal(t, "acme-robotics", LinkedInCompanySlug("https://www.linkedin.com/company/Acme-Robotics/about/"))
	assert.Equal(t, "globex", LinkedInCompanySlug(`{"linkedinUrl": "linkedin.com/company/globex"}`))
	assert.Equal(t, "", LinkedInCompanySlug("https://www.linkedin.com/in/jane-doe"))
}

func TestIsLinkedInURL(t *testing.T) {
	assert.True(t, IsLinkedInURL("https://www.linkedin.com/in/jane-doe"))
	assert.True(t, IsLinkedInURL("https://fr.linkedin.com/in/jean"))
	assert.False(t, IsLinkedInURL("https://linkedin.example.com/in/x"))
	assert.False(t, IsLinkedInURL("jane-doe"))
}
