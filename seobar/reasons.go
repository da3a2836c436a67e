package seobar

// Terminal reasons, one per decision branch. A verdict carries exactly
// one of these; later, more specific branches overwrite earlier ones.
const (
	ReasonTitleCustom          = "A custom title is set."
	ReasonTitleGenerated       = "The title is generated from the content."
	ReasonTitleSyntax          = "Found unprocessed syntax in the title."
	ReasonTitleIncomplete      = "The title is incomplete."
	ReasonTitleUntitled        = "The title is a placeholder."
	ReasonTitleNotBranded      = "The title is not branded."
	ReasonTitleBrandDuplicated = "The brand name is duplicated in the title."
	ReasonTitleFarTooShort     = "The title is far too short."
	ReasonTitleTooShort        = "The title is too short."
	ReasonTitleTooLong         = "The title is too long."
	ReasonTitleFarTooLong      = "The title is far too long."

	ReasonDescriptionCustom        = "A custom description is set."
	ReasonDescriptionGenerated     = "The description is generated from the content."
	ReasonDescriptionSyntax        = "Found unprocessed syntax in the description."
	ReasonDescriptionEmptyNoAuto   = "No description is set, and automatic generation is disabled."
	ReasonDescriptionEmpty         = "No description could be generated."
	ReasonDescriptionFoundManyDupe = "Found too many repeated words in the description."
	ReasonDescriptionFoundDupe     = "Found repeated words in the description."
	ReasonDescriptionFarTooShort   = "The description is far too short."
	ReasonDescriptionTooShort      = "The description is too short."
	ReasonDescriptionTooLong       = "The description is too long."
	ReasonDescriptionFarTooLong    = "The description is far too long."

	ReasonNotPublic = "The site is configured not to be indexed."

	ReasonIndexAllowed      = "The item may be indexed."
	ReasonIndexBlocked      = "The item may not be indexed."
	ReasonIndexDraft        = "The item is not published."
	ReasonIndexProtected    = "Access to the item is restricted."
	ReasonCanonicalURL      = "The canonical URL points to another page."
	ReasonTermEmpty         = "The term is empty."
	ReasonTermEmptyOverride = "The term is empty, yet requests indexing."

	ReasonFollowAllowed = "Links on the item may be followed."
	ReasonFollowBlocked = "Links on the item may not be followed."

	ReasonArchiveAllowed = "The item may be archived."
	ReasonArchiveBlocked = "The item may not be archived."

	ReasonNoRedirect = "The item does not redirect visitors."
	ReasonRedirects  = "The item redirects visitors."
)

// Display symbols.
const (
	symbolTitleCustom          = "T"
	symbolTitleGenerated       = "TG"
	symbolDescriptionCustom    = "D"
	symbolDescriptionGenerated = "DG"
	symbolIndexing             = "I"
	symbolFollowing            = "F"
	symbolArchiving            = "A"
	symbolRedirect             = "R"
	// symbolUrgent replaces the regular symbol when the whole site is
	// kept out of search engines.
	symbolUrgent = "!!!"
)

// Display labels per test category.
const (
	labelTitle       = "Title"
	labelDescription = "Description"
	labelIndexing    = "Indexing"
	labelFollowing   = "Following"
	labelArchiving   = "Archiving"
	labelRedirect    = "Redirect"
)

// Assessment keys. Keys name the observation; several branches delete
// superseded keys before adding their own.
const (
	assessBase          = "base"
	assessHomepage      = "homepage"
	assessProtected     = "protected"
	assessBranding      = "branding"
	assessNotBranded    = "notbranded"
	assessDuplicated    = "duplicated"
	assessSyntax        = "syntax"
	assessEmpty         = "empty"
	assessEmptyOverride = "emptyoverride"
	assessUntitled      = "untitled"
	assessLength        = "length"
	assessSource        = "source"
	assessDupe          = "dupe"
	assessSite          = "site"
	assessPostType      = "posttype"
	assessTaxonomy      = "taxonomy"
	assessOverride      = "override"
	assessCanonical     = "canonicalurl"
	assessNoIndexHint   = "noindex"
	assessRobotsTxt     = "robotstxt"
	assessDraft         = "draft"
	assessNotPublic     = "notpublic"
	assessRedirect      = "redirect"
)
