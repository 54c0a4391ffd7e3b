package xmp

import (
	"fmt"

	"github.com/ankit-chaubey/exif-surgery/core/arena"
	"github.com/ankit-chaubey/exif-surgery/core/exif"
)

// Descriptor binds an XMP element to a record field.
type Descriptor struct {
	// Name is the prefix-qualified element name, e.g. "dc:subject".
	Name string
	// Up also lets the element Up levels above the new one match, so an
	// rdf:li deep inside the property can start the capture. 0 means only
	// the element itself.
	Up int
	// List accumulates every captured item instead of replacing the value.
	List bool
	// Parent, when set, must appear somewhere above the element. It tells
	// apart properties that share a name, such as the City of
	// LocationCreated and of LocationShown.
	Parent string

	field func(*exif.XMP) *arena.Text
}

// Field returns the record field the descriptor writes.
func (d *Descriptor) Field(x *exif.XMP) *arena.Text { return d.field(x) }

// ─── Descriptor table ────────────────────────────────────────────────────────
//
// The matcher takes the first descriptor that matches, so for a repeated
// name every parented descriptor comes before the one without a parent.
// validateTable enforces this when the package loads.

const seq = 2 // <prop><rdf:Seq|Bag|Alt><rdf:li>

var table = []Descriptor{
	{"Iptc4xmpCore:CiAdrCity", 0, false, "", func(x *exif.XMP) *arena.Text { return &x.Iptc4xmpCore.CreatorContactInfo.CiAdrCity }},
	{"Iptc4xmpCore:CiAdrCtry", 0, false, "", func(x *exif.XMP) *arena.Text { return &x.Iptc4xmpCore.CreatorContactInfo.CiAdrCtry }},
	{"Iptc4xmpCore:CiAdrExtadr", 0, false, "", func(x *exif.XMP) *arena.Text { return &x.Iptc4xmpCore.CreatorContactInfo.CiAdrExtadr }},
	{"Iptc4xmpCore:CiAdrPcode", 0, false, "", func(x *exif.XMP) *arena.Text { return &x.Iptc4xmpCore.CreatorContactInfo.CiAdrPcode }},
	{"Iptc4xmpCore:CiAdrRegion", 0, false, "", func(x *exif.XMP) *arena.Text { return &x.Iptc4xmpCore.CreatorContactInfo.CiAdrRegion }},
	{"Iptc4xmpCore:CiEmailWork", 0, false, "", func(x *exif.XMP) *arena.Text { return &x.Iptc4xmpCore.CreatorContactInfo.CiEmailWork }},
	{"Iptc4xmpCore:CiTelWork", 0, false, "", func(x *exif.XMP) *arena.Text { return &x.Iptc4xmpCore.CreatorContactInfo.CiTelWork }},
	{"Iptc4xmpCore:CiUrlWork", 0, false, "", func(x *exif.XMP) *arena.Text { return &x.Iptc4xmpCore.CreatorContactInfo.CiUrlWork }},

	{"Iptc4xmpCore:IntellectualGenre", 0, false, "", func(x *exif.XMP) *arena.Text { return &x.Iptc4xmpCore.IntellectualGenre }},
	{"Iptc4xmpCore:Location", 0, false, "", func(x *exif.XMP) *arena.Text { return &x.Iptc4xmpCore.Location }},
	{"Iptc4xmpCore:Scene", 0, false, "", func(x *exif.XMP) *arena.Text { return &x.Iptc4xmpCore.Scene }},
	{"Iptc4xmpCore:SubjectCode", 0, false, "", func(x *exif.XMP) *arena.Text { return &x.Iptc4xmpCore.SubjectCode }},

	{"Iptc4xmpExt:AOCopyrightNotice", 0, false, "Iptc4xmpExt:ArtworkOrObject", func(x *exif.XMP) *arena.Text { return &x.Iptc4xmpExt.ArtworkOrObject.AOCopyrightNotice }},
	{"Iptc4xmpExt:AOCreator", 0, false, "Iptc4xmpExt:ArtworkOrObject", func(x *exif.XMP) *arena.Text { return &x.Iptc4xmpExt.ArtworkOrObject.AOCreator }},
	{"Iptc4xmpExt:AOCircaDateCreated", 0, false, "", func(x *exif.XMP) *arena.Text { return &x.Iptc4xmpExt.ArtworkOrObject.AOCircaDateCreated }},
	{"Iptc4xmpExt:AOContentDescription", seq, false, "", func(x *exif.XMP) *arena.Text { return &x.Iptc4xmpExt.ArtworkOrObject.AOContentDescription }},
	{"Iptc4xmpExt:AOContributionDescription", seq, false, "", func(x *exif.XMP) *arena.Text { return &x.Iptc4xmpExt.ArtworkOrObject.AOContributionDescription }},
	{"Iptc4xmpExt:AOCreatorId", seq, false, "", func(x *exif.XMP) *arena.Text { return &x.Iptc4xmpExt.ArtworkOrObject.AOCreatorId }},

	{"Iptc4xmpExt:AOCurrentCopyrightOwnerId", 0, false, "", func(x *exif.XMP) *arena.Text { return &x.Iptc4xmpExt.ArtworkOrObject.AOCurrentCopyrightOwnerId }},
	{"Iptc4xmpExt:AOCurrentCopyrightOwnerName", 0, false, "", func(x *exif.XMP) *arena.Text { return &x.Iptc4xmpExt.ArtworkOrObject.AOCurrentCopyrightOwnerName }},
	{"Iptc4xmpExt:AOCurrentLicensorId", 0, false, "", func(x *exif.XMP) *arena.Text { return &x.Iptc4xmpExt.ArtworkOrObject.AOCurrentLicensorId }},
	{"Iptc4xmpExt:AOCurrentLicensorName", 0, false, "", func(x *exif.XMP) *arena.Text { return &x.Iptc4xmpExt.ArtworkOrObject.AOCurrentLicensorName }},

	{"Iptc4xmpExt:AOPhysicalDescription", seq, false, "", func(x *exif.XMP) *arena.Text { return &x.Iptc4xmpExt.ArtworkOrObject.AOPhysicalDescription }},
	{"Iptc4xmpExt:AOSource", 0, false, "", func(x *exif.XMP) *arena.Text { return &x.Iptc4xmpExt.ArtworkOrObject.AOSource }},
	{"Iptc4xmpExt:AOSourceInvNo", 0, false, "", func(x *exif.XMP) *arena.Text { return &x.Iptc4xmpExt.ArtworkOrObject.AOSourceInvNo }},
	{"Iptc4xmpExt:AOSourceInvURL", 0, false, "", func(x *exif.XMP) *arena.Text { return &x.Iptc4xmpExt.ArtworkOrObject.AOSourceInvURL }},
	{"Iptc4xmpExt:AOStylePeriod", seq, false, "", func(x *exif.XMP) *arena.Text { return &x.Iptc4xmpExt.ArtworkOrObject.AOStylePeriod }},
	{"Iptc4xmpExt:AOTitle", seq, false, "", func(x *exif.XMP) *arena.Text { return &x.Iptc4xmpExt.ArtworkOrObject.AOTitle }},

	{"Iptc4xmpExt:DigImageGUID", 0, false, "", func(x *exif.XMP) *arena.Text { return &x.Iptc4xmpExt.DigImageGUID }},
	{"Iptc4xmpExt:EmbdEncRightsExpr", seq, false, "", func(x *exif.XMP) *arena.Text { return &x.Iptc4xmpExt.EmbdEncRightsExpr }},
	{"Iptc4xmpExt:DigitalSourceType", 0, false, "", func(x *exif.XMP) *arena.Text { return &x.Iptc4xmpExt.DigitalSourceType }},
	{"Iptc4xmpExt:Event", seq, false, "", func(x *exif.XMP) *arena.Text { return &x.Iptc4xmpExt.Event }},
	{"Iptc4xmpExt:EventId", seq, false, "", func(x *exif.XMP) *arena.Text { return &x.Iptc4xmpExt.EventId }},

	{"Iptc4xmpExt:LinkedRightsExpr", 0, false, "Iptc4xmpExt:LinkedEncRightsExpr", func(x *exif.XMP) *arena.Text { return &x.Iptc4xmpExt.LinkedEncRightsExpr.LinkedRightsExpr }},
	{"Iptc4xmpExt:RightsExprEncType", 0, false, "Iptc4xmpExt:LinkedEncRightsExpr", func(x *exif.XMP) *arena.Text { return &x.Iptc4xmpExt.LinkedEncRightsExpr.RightsExprEncType }},
	{"Iptc4xmpExt:RightsExprLangId", 0, false, "Iptc4xmpExt:LinkedEncRightsExpr", func(x *exif.XMP) *arena.Text { return &x.Iptc4xmpExt.LinkedEncRightsExpr.RightsExprLangId }},

	{"Iptc4xmpExt:City", 0, false, "Iptc4xmpExt:LocationCreated", func(x *exif.XMP) *arena.Text { return &x.Iptc4xmpExt.LocationCreated.City }},
	{"Iptc4xmpExt:CountryCode", 0, false, "Iptc4xmpExt:LocationCreated", func(x *exif.XMP) *arena.Text { return &x.Iptc4xmpExt.LocationCreated.CountryCode }},
	{"Iptc4xmpExt:CountryName", 0, false, "Iptc4xmpExt:LocationCreated", func(x *exif.XMP) *arena.Text { return &x.Iptc4xmpExt.LocationCreated.CountryName }},
	{"Iptc4xmpExt:ProvinceState", 0, false, "Iptc4xmpExt:LocationCreated", func(x *exif.XMP) *arena.Text { return &x.Iptc4xmpExt.LocationCreated.ProvinceState }},
	{"Iptc4xmpExt:Sublocation", 0, false, "Iptc4xmpExt:LocationCreated", func(x *exif.XMP) *arena.Text { return &x.Iptc4xmpExt.LocationCreated.Sublocation }},
	{"Iptc4xmpExt:WorldRegion", 0, false, "Iptc4xmpExt:LocationCreated", func(x *exif.XMP) *arena.Text { return &x.Iptc4xmpExt.LocationCreated.WorldRegion }},

	{"Iptc4xmpExt:City", 0, false, "Iptc4xmpExt:LocationShown", func(x *exif.XMP) *arena.Text { return &x.Iptc4xmpExt.LocationShown.City }},
	{"Iptc4xmpExt:CountryCode", 0, false, "Iptc4xmpExt:LocationShown", func(x *exif.XMP) *arena.Text { return &x.Iptc4xmpExt.LocationShown.CountryCode }},
	{"Iptc4xmpExt:CountryName", 0, false, "Iptc4xmpExt:LocationShown", func(x *exif.XMP) *arena.Text { return &x.Iptc4xmpExt.LocationShown.CountryName }},
	{"Iptc4xmpExt:ProvinceState", 0, false, "Iptc4xmpExt:LocationShown", func(x *exif.XMP) *arena.Text { return &x.Iptc4xmpExt.LocationShown.ProvinceState }},
	{"Iptc4xmpExt:Sublocation", 0, false, "Iptc4xmpExt:LocationShown", func(x *exif.XMP) *arena.Text { return &x.Iptc4xmpExt.LocationShown.Sublocation }},
	{"Iptc4xmpExt:WorldRegion", 0, false, "Iptc4xmpExt:LocationShown", func(x *exif.XMP) *arena.Text { return &x.Iptc4xmpExt.LocationShown.WorldRegion }},

	{"Iptc4xmpExt:MaxAvailHeight", 0, false, "", func(x *exif.XMP) *arena.Text { return &x.Iptc4xmpExt.MaxAvailHeight }},
	{"Iptc4xmpExt:MaxAvailWidth", 0, false, "", func(x *exif.XMP) *arena.Text { return &x.Iptc4xmpExt.MaxAvailWidth }},
	{"Iptc4xmpExt:ModelAge", 0, false, "", func(x *exif.XMP) *arena.Text { return &x.Iptc4xmpExt.ModelAge }},

	{"Iptc4xmpExt:PersonCharacteristic", 7, true, "Iptc4xmpExt:PersonInImageWDetails", func(x *exif.XMP) *arena.Text { return &x.Iptc4xmpExt.PersonInImageWDetails.PersonCharacteristic }},
	{"Iptc4xmpExt:PersonDescription", seq, true, "Iptc4xmpExt:PersonInImageWDetails", func(x *exif.XMP) *arena.Text { return &x.Iptc4xmpExt.PersonInImageWDetails.PersonDescription }},
	{"Iptc4xmpExt:PersonId", seq, true, "Iptc4xmpExt:PersonInImageWDetails", func(x *exif.XMP) *arena.Text { return &x.Iptc4xmpExt.PersonInImageWDetails.PersonId }},
	{"Iptc4xmpExt:PersonName", seq, true, "Iptc4xmpExt:PersonInImageWDetails", func(x *exif.XMP) *arena.Text { return &x.Iptc4xmpExt.PersonInImageWDetails.PersonName }},

	{"Iptc4xmpExt:ProductDescription", seq, true, "Iptc4xmpExt:ProductInImage", func(x *exif.XMP) *arena.Text { return &x.Iptc4xmpExt.ProductInImage.ProductDescription }},
	{"Iptc4xmpExt:ProductGTIN", 0, false, "Iptc4xmpExt:ProductInImage", func(x *exif.XMP) *arena.Text { return &x.Iptc4xmpExt.ProductInImage.ProductGTIN }},
	{"Iptc4xmpExt:ProductId", 0, false, "Iptc4xmpExt:ProductInImage", func(x *exif.XMP) *arena.Text { return &x.Iptc4xmpExt.ProductInImage.ProductId }},
	{"Iptc4xmpExt:ProductName", seq, true, "Iptc4xmpExt:ProductInImage", func(x *exif.XMP) *arena.Text { return &x.Iptc4xmpExt.ProductInImage.ProductName }},

	{"Iptc4xmpExt:OrganisationInImageCode", seq, false, "", func(x *exif.XMP) *arena.Text { return &x.Iptc4xmpExt.OrganisationInImageCode }},
	{"Iptc4xmpExt:OrganisationInImageName", seq, false, "", func(x *exif.XMP) *arena.Text { return &x.Iptc4xmpExt.OrganisationInImageName }},
	{"Iptc4xmpExt:PersonInImage", seq, false, "", func(x *exif.XMP) *arena.Text { return &x.Iptc4xmpExt.PersonInImage }},
	{"Iptc4xmpExt:PersonCharacteristic", seq, false, "", func(x *exif.XMP) *arena.Text { return &x.Iptc4xmpExt.PersonCharacteristic }},
	{"Iptc4xmpExt:PersonDescription", seq, false, "", func(x *exif.XMP) *arena.Text { return &x.Iptc4xmpExt.PersonDescription }},

	{"Iptc4xmpExt:RegItemId", 0, false, "", func(x *exif.XMP) *arena.Text { return &x.Iptc4xmpExt.RegistryId.RegItemId }},
	{"Iptc4xmpExt:RegOrgId", 0, false, "", func(x *exif.XMP) *arena.Text { return &x.Iptc4xmpExt.RegistryId.RegOrgId }},

	{"Iptc4xmpExt:CvId", 0, false, "Iptc4xmpExt:AboutCvTerm", func(x *exif.XMP) *arena.Text { return &x.Iptc4xmpExt.AboutCvTerm.CvId }},
	{"Iptc4xmpExt:CvTermId", 0, false, "Iptc4xmpExt:AboutCvTerm", func(x *exif.XMP) *arena.Text { return &x.Iptc4xmpExt.AboutCvTerm.CvTermId }},
	{"Iptc4xmpExt:CvTermName", seq, true, "Iptc4xmpExt:AboutCvTerm", func(x *exif.XMP) *arena.Text { return &x.Iptc4xmpExt.AboutCvTerm.CvTermName }},
	{"Iptc4xmpExt:CvTermRefinedAbout", 0, false, "Iptc4xmpExt:AboutCvTerm", func(x *exif.XMP) *arena.Text { return &x.Iptc4xmpExt.AboutCvTerm.CvTermRefinedAbout }},

	{"dc:creator", seq, true, "", func(x *exif.XMP) *arena.Text { return &x.DC.Creator }},
	{"dc:date", seq, true, "", func(x *exif.XMP) *arena.Text { return &x.DC.Date }},
	{"dc:format", 0, false, "", func(x *exif.XMP) *arena.Text { return &x.DC.Format }},
	{"dc:description", seq, true, "", func(x *exif.XMP) *arena.Text { return &x.DC.Description }},
	{"dc:rights", seq, true, "", func(x *exif.XMP) *arena.Text { return &x.DC.Rights }},
	{"dc:subject", seq, true, "", func(x *exif.XMP) *arena.Text { return &x.DC.Subject }},
	{"dc:title", seq, true, "", func(x *exif.XMP) *arena.Text { return &x.DC.Title }},

	{"aux:Lens", 0, false, "", func(x *exif.XMP) *arena.Text { return &x.Lens }},

	{"exif:GPSAltitude", 0, false, "", func(x *exif.XMP) *arena.Text { return &x.Exif.GPSAltitude }},
	{"exif:GPSAltitudeRef", 0, false, "", func(x *exif.XMP) *arena.Text { return &x.Exif.GPSAltitudeRef }},
	{"exif:GPSLatitude", 0, false, "", func(x *exif.XMP) *arena.Text { return &x.Exif.GPSLatitude }},
	{"exif:GPSLongitude", 0, false, "", func(x *exif.XMP) *arena.Text { return &x.Exif.GPSLongitude }},

	{"xmp:CreateDate", 0, false, "", func(x *exif.XMP) *arena.Text { return &x.CreateDate }},
	{"xmp:CreatorTool", 0, false, "", func(x *exif.XMP) *arena.Text { return &x.CreatorTool }},
	{"xmp:MetadataDate", 0, false, "", func(x *exif.XMP) *arena.Text { return &x.MetadataDate }},
	{"xmp:ModifyDate", 0, false, "", func(x *exif.XMP) *arena.Text { return &x.ModifyDate }},
	{"xmp:Rating", 0, false, "", func(x *exif.XMP) *arena.Text { return &x.Rating }},

	// generic fallbacks for names used above with a parent
	{"Iptc4xmpExt:AOCopyrightNotice", 0, false, "", func(x *exif.XMP) *arena.Text { return &x.Iptc4xmpExt.AOCopyrightNotice }},
	{"Iptc4xmpExt:AOCreator", 0, false, "", func(x *exif.XMP) *arena.Text { return &x.Iptc4xmpExt.AOCreator }},
	{"Iptc4xmpExt:AODateCreated", 0, false, "", func(x *exif.XMP) *arena.Text { return &x.Iptc4xmpExt.AODateCreated }},
	{"Iptc4xmpExt:AddlModelInfo", 0, false, "", func(x *exif.XMP) *arena.Text { return &x.Iptc4xmpExt.AddlModelInfo }},

	{"Iptc4xmpCore:CountryCode", 0, false, "", func(x *exif.XMP) *arena.Text { return &x.Iptc4xmpCore.CountryCode }},
}

func init() {
	if err := validateTable(table); err != nil {
		panic(err)
	}
}

// validateTable checks the ordering invariant: a descriptor without a
// parent must follow every parented descriptor of the same name, since it
// would otherwise shadow them. It also rejects duplicate (name, parent)
// pairs and descriptors without a field.
func validateTable(t []Descriptor) error {
	type key struct{ name, parent string }
	seen := make(map[key]int, len(t))
	generic := make(map[string]int)
	for i, d := range t {
		if d.Name == "" || d.field == nil {
			return fmt.Errorf("xmp: descriptor %d (%q) is incomplete", i, d.Name)
		}
		if d.Up < 0 {
			return fmt.Errorf("xmp: descriptor %d (%q) has negative depth %d", i, d.Name, d.Up)
		}
		k := key{d.Name, d.Parent}
		if j, dup := seen[k]; dup {
			return fmt.Errorf("xmp: descriptors %d and %d both match %q under %q", j, i, d.Name, d.Parent)
		}
		seen[k] = i
		if d.Parent == "" {
			generic[d.Name] = i
			continue
		}
		if j, ok := generic[d.Name]; ok {
			return fmt.Errorf("xmp: descriptor %d (%q without parent) shadows descriptor %d (parent %q)",
				j, d.Name, i, d.Parent)
		}
	}
	return nil
}

// Descriptors returns a copy of the descriptor table in match order.
func Descriptors() []Descriptor {
	return append([]Descriptor(nil), table...)
}
