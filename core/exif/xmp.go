package exif

import "github.com/ankit-chaubey/exif-surgery/core/arena"

// XMP is the fixed set of XMP properties the decoder understands. Fields
// documented as lists hold every rdf:li of an rdf:Bag, rdf:Seq or rdf:Alt
// container in document order; read them with Record.List. Every other
// field is a single string; read it with Record.Text.
type XMP struct {
	Iptc4xmpCore Iptc4xmpCore
	Iptc4xmpExt  Iptc4xmpExt
	DC           DublinCore
	Exif         XMPExif

	CreateDate   arena.Text
	CreatorTool  arena.Text
	MetadataDate arena.Text
	ModifyDate   arena.Text
	Rating       arena.Text
	Lens         arena.Text // aux:Lens
}

type Iptc4xmpCore struct {
	CountryCode        arena.Text
	CreatorContactInfo CreatorContactInfo
	IntellectualGenre  arena.Text
	Location           arena.Text
	Scene              arena.Text
	SubjectCode        arena.Text
}

type CreatorContactInfo struct {
	CiAdrCity   arena.Text
	CiAdrCtry   arena.Text
	CiAdrExtadr arena.Text
	CiAdrPcode  arena.Text
	CiAdrRegion arena.Text
	CiEmailWork arena.Text
	CiTelWork   arena.Text
	CiUrlWork   arena.Text
}

// Iptc4xmpExt is the IPTC Extension schema. Several property names occur
// both at the top level and inside a structure such as ArtworkOrObject;
// the nested copies are kept apart from the top-level ones.
type Iptc4xmpExt struct {
	AOCopyrightNotice arena.Text
	AOCreator         arena.Text
	AODateCreated     arena.Text // "2017-05-29T17:19:21-0400"
	AddlModelInfo     arena.Text

	ArtworkOrObject     ArtworkOrObject
	DigImageGUID        arena.Text
	EmbdEncRightsExpr   arena.Text
	DigitalSourceType   arena.Text
	Event               arena.Text
	EventId             arena.Text
	LinkedEncRightsExpr LinkedEncRightsExpr
	LocationCreated     Location
	LocationShown       Location
	MaxAvailHeight      arena.Text
	MaxAvailWidth       arena.Text
	ModelAge            arena.Text

	OrganisationInImageCode arena.Text
	OrganisationInImageName arena.Text
	PersonInImage           arena.Text
	PersonCharacteristic    arena.Text
	PersonDescription       arena.Text

	PersonInImageWDetails PersonInImageWDetails
	ProductInImage        ProductInImage
	RegistryId            RegistryId
	AboutCvTerm           AboutCvTerm
}

type ArtworkOrObject struct {
	AOCircaDateCreated          arena.Text
	AOContentDescription        arena.Text
	AOContributionDescription   arena.Text
	AOCopyrightNotice           arena.Text
	AOCreator                   arena.Text
	AOCreatorId                 arena.Text
	AOCurrentCopyrightOwnerId   arena.Text
	AOCurrentCopyrightOwnerName arena.Text
	AOCurrentLicensorId         arena.Text
	AOCurrentLicensorName       arena.Text
	AOPhysicalDescription       arena.Text
	AOSource                    arena.Text
	AOSourceInvNo               arena.Text
	AOSourceInvURL              arena.Text
	AOStylePeriod               arena.Text
	AOTitle                     arena.Text
}

// LinkedEncRightsExpr keeps a single triple; later ones overwrite it.
type LinkedEncRightsExpr struct {
	LinkedRightsExpr  arena.Text
	RightsExprEncType arena.Text
	RightsExprLangId  arena.Text
}

type Location struct {
	City          arena.Text
	CountryCode   arena.Text
	CountryName   arena.Text
	ProvinceState arena.Text
	Sublocation   arena.Text
	WorldRegion   arena.Text
}

// PersonInImageWDetails collects the details of every person into one
// list per property.
type PersonInImageWDetails struct {
	PersonCharacteristic arena.Text // list
	PersonDescription    arena.Text // list
	PersonId             arena.Text // list
	PersonName           arena.Text // list
}

type ProductInImage struct {
	ProductDescription arena.Text // list
	ProductGTIN        arena.Text
	ProductId          arena.Text
	ProductName        arena.Text // list
}

type RegistryId struct {
	RegItemId arena.Text
	RegOrgId  arena.Text
}

type AboutCvTerm struct {
	CvId               arena.Text
	CvTermId           arena.Text
	CvTermName         arena.Text // list
	CvTermRefinedAbout arena.Text
}

// DublinCore holds the dc: properties. All but Format are lists.
type DublinCore struct {
	Creator     arena.Text
	Date        arena.Text
	Format      arena.Text // "image/jpeg"
	Description arena.Text
	Rights      arena.Text
	Subject     arena.Text
	Title       arena.Text
}

// XMPExif holds the exif: GPS properties as written, e.g. "26,34.951N".
type XMPExif struct {
	GPSAltitude    arena.Text
	GPSAltitudeRef arena.Text
	GPSLatitude    arena.Text
	GPSLongitude   arena.Text
}
