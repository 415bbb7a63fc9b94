package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"maisonneuve/internal/domain"
	applog "maisonneuve/internal/log"
	"maisonneuve/internal/repos"
	"maisonneuve/internal/storage"
	"maisonneuve/internal/validate"
)

type AdminProductHandler struct {
	Prods  *repos.ProductRepo
	Images storage.ImageStore
}

// GET /admin/products
func (h *AdminProductHandler) ListPage(c *fiber.Ctx) error {
	products, err := h.Prods.Search("", "", 200, 0)
	if err != nil {
		applog.Error(c, "admin.products.list.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load products"})
	}
	return render(c, "admin_products", fiber.Map{"Products": products})
}

// GET /admin/products/new
func (h *AdminProductHandler) NewForm(c *fiber.Ctx) error {
	return render(c, "admin_product_form", fiber.Map{"P": domain.Product{}, "IsNew": true})
}

// GET /admin/products/:id/edit
func (h *AdminProductHandler) EditForm(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Product not found"})
	}
	p, err := h.Prods.Get(id)
	if err != nil {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Product not found"})
	}
	gallery, _ := h.Prods.Images(id)
	return render(c, "admin_product_form", fiber.Map{"P": p, "Gallery": gallery, "IsNew": false})
}

// parseProductForm reads the shared create/edit fields. The discount
// price must sit below the list price; blank or zero clears it.
func parseProductForm(c *fiber.Ctx, p *domain.Product) (string, bool) {
	name, ok := validate.Name(c.FormValue("name"))
	if !ok {
		return "name must be 1-60 characters", false
	}
	price, ok := validate.Price(c.FormValue("price"))
	if !ok {
		return "invalid price", false
	}
	p.Name = name
	p.Price = price
	p.Description = strings.TrimSpace(c.FormValue("description"))
	p.Category = strings.TrimSpace(c.FormValue("category"))

	p.DiscountPrice = nil
	if raw := strings.TrimSpace(c.FormValue("discount_price")); raw != "" {
		dp, ok := validate.Price(raw)
		if !ok || dp >= price {
			return "discount price must be below the price", false
		}
		// Zero clears the discount the same way a blank field does.
		if dp > 0 {
			p.DiscountPrice = &dp
		}
	}

	stock, err := strconv.Atoi(strings.TrimSpace(c.FormValue("stock")))
	if err != nil || stock < 0 {
		return "invalid stock", false
	}
	p.Stock = stock
	p.Active = c.FormValue("active") != ""
	return "", true
}

// POST /admin/products
func (h *AdminProductHandler) Create(c *fiber.Ctx) error {
	var p domain.Product
	if msg, ok := parseProductForm(c, &p); !ok {
		return c.Status(400).SendString(msg)
	}
	p.ID = uuid.NewString()
	p.ImageURL = strings.TrimSpace(c.FormValue("image_url"))

	if err := h.Prods.Insert(p); err != nil {
		applog.Error(c, "admin.products.create.fail", err, map[string]any{"name": p.Name})
		return c.Status(400).SendString("could not create product")
	}
	applog.Audit(c, "admin.products.create", map[string]any{"product": p.ID})
	return c.Redirect("/admin/products")
}

// POST /admin/products/:id
func (h *AdminProductHandler) Update(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(400).SendString("missing id")
	}
	p, err := h.Prods.Get(id)
	if err != nil {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Product not found"})
	}
	if msg, ok := parseProductForm(c, &p); !ok {
		return c.Status(400).SendString(msg)
	}
	if v := strings.TrimSpace(c.FormValue("image_url")); v != "" {
		p.ImageURL = v
	}

	if err := h.Prods.Update(p); err != nil {
		applog.Error(c, "admin.products.update.fail", err, map[string]any{"product": id})
		return c.Status(400).SendString("could not update product")
	}
	applog.Audit(c, "admin.products.update", map[string]any{"product": id})
	return c.Redirect("/admin/products")
}

// POST /admin/products/:id/delete — hard delete when order history
// allows it, deactivate otherwise.
func (h *AdminProductHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(400).SendString("missing id")
	}
	if err := h.Prods.Delete(id); err != nil {
		if derr := h.Prods.Deactivate(id); derr != nil {
			applog.Error(c, "admin.products.delete.fail", derr, map[string]any{"product": id})
			return c.Status(400).SendString("could not delete product")
		}
		applog.Audit(c, "admin.products.deactivate", map[string]any{"product": id})
		return c.Redirect("/admin/products")
	}
	applog.Audit(c, "admin.products.delete", map[string]any{"product": id})
	return c.Redirect("/admin/products")
}

// POST /admin/products/:id/images — multipart upload into the image
// bucket. slot=primary replaces the card image; anything else appends a
// gallery row at the submitted display order.
func (h *AdminProductHandler) UploadImage(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(400).SendString("missing id")
	}
	p, err := h.Prods.Get(id)
	if err != nil {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Product not found"})
	}

	fh, err := c.FormFile("image")
	if err != nil {
		return c.Status(400).SendString("missing image file")
	}
	body, err := storage.ProcessUpload(fh)
	if err != nil {
		applog.Security(c, "admin.images.upload.reject", map[string]any{"product": id, "reason": err.Error()})
		return c.Status(400).SendString(err.Error())
	}

	key := "products/" + id + "/" + uuid.NewString() + ".jpg"
	url, err := h.Images.Put(c.Context(), key, body, "image/jpeg")
	if err != nil {
		applog.Error(c, "admin.images.upload.fail", err, map[string]any{"product": id})
		return c.Status(500).SendString("could not store image")
	}

	if c.FormValue("slot") == "primary" {
		p.ImageURL = url
		if err := h.Prods.Update(p); err != nil {
			return c.Status(500).SendString("could not save image")
		}
	} else {
		order, _ := strconv.Atoi(c.FormValue("display_order"))
		if err := h.Prods.InsertImage(domain.ProductImage{
			ID:           uuid.NewString(),
			ProductID:    id,
			ImageURL:     url,
			DisplayOrder: order,
		}); err != nil {
			return c.Status(500).SendString("could not save image")
		}
	}

	applog.Audit(c, "admin.images.upload", map[string]any{"product": id, "key": key})
	return c.Redirect("/admin/products/" + id + "/edit")
}

// POST /admin/products/:id/images/delete
func (h *AdminProductHandler) DeleteImage(c *fiber.Ctx) error {
	productID, ok := validate.ID(c.Params("id"))
	imageID, ok2 := validate.ID(c.FormValue("imageId"))
	if !ok || !ok2 {
		return c.Status(400).SendString("missing id")
	}
	img, err := h.Prods.GetImage(imageID)
	if err != nil || img.ProductID != productID {
		return c.Status(404).SendString("image not found")
	}
	if err := h.Prods.DeleteImage(imageID); err != nil {
		applog.Error(c, "admin.images.delete.fail", err, map[string]any{"image": imageID})
		return c.Status(500).SendString("could not delete image")
	}
	// Best effort on the object itself; external seed URLs have no key.
	if key := h.Images.KeyFor(img.ImageURL); key != "" {
		if err := h.Images.Delete(c.Context(), key); err != nil {
			applog.Error(c, "admin.images.object.delete.fail", err, map[string]any{"key": key})
		}
	}
	applog.Audit(c, "admin.images.delete", map[string]any{"product": productID, "image": imageID})
	return c.Redirect("/admin/products/" + productID + "/edit")
}
