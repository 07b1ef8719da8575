package shopify

// CatalogQuery fetches the active product catalog: up to 250 products with
// their first image and up to 10 variants each.
const CatalogQuery = `
query StorefrontCatalog {
  products(first: 250, query: "status:ACTIVE") {
    edges {
      node {
        id
        title
        handle
        description
        images(first: 1) {
          edges {
            node {
              url
            }
          }
        }
        variants(first: 10) {
          edges {
            node {
              id
              title
              price
              inventoryQuantity
            }
          }
        }
      }
    }
  }
}`

// OrderCreateMutation creates an order through the Admin API. Inventory is
// decremented by the backend according to its own policy; this service
// never reserves stock itself.
const OrderCreateMutation = `
mutation CreateStorefrontOrder($order: OrderCreateOrderInput!, $options: OrderCreateOptionsInput) {
  orderCreate(order: $order, options: $options) {
    order {
      id
      name
      email
    }
    userErrors {
      field
      message
    }
  }
}`
